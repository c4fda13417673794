package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/service/scanqueue"
	"github.com/venturalabs/ventura/pkg/clients/vision"
)

// maxScanImageBytes bounds inbound photo uploads.
const maxScanImageBytes = 10 << 20

// ScanHandler bridges photo-based ingestion into the review queue.
type ScanHandler struct {
	queue  *scanqueue.Queue
	vision vision.Client
	logger *zap.Logger
}

// NewScanHandler constructs the scan ingestion handler adapter. The
// vision client may be nil; the image endpoint then reports the feature
// as disabled, while the receive/poll endpoints keep working.
func NewScanHandler(queue *scanqueue.Queue, visionClient vision.Client, logger *zap.Logger) *ScanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanHandler{queue: queue, vision: visionClient, logger: logger}
}

type receiveRequest struct {
	Action string                   `json:"action"`
	Data   *models.ScannedCandidate `json:"data"`
}

// Receive accepts extracted product data from an external producer
// (e.g. the chat bot) and queues it for human review.
func (h *ScanHandler) Receive(c *gin.Context) {
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Action != string(models.ActionCreate) || req.Data == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format. Expected {'action': 'CREATE', 'data': {...}}"})
		return
	}

	h.queue.Enqueue(*req.Data)
	h.logger.Info("scan candidate queued",
		zap.String("product_name", req.Data.Name),
		zap.Int("queue_len", h.queue.Len()))

	c.JSON(http.StatusAccepted, gin.H{"message": "Product data received and queued for review."})
}

// Scan accepts a raw product photo, extracts candidate fields with the
// vision backend and queues the result for review.
func (h *ScanHandler) Scan(c *gin.Context) {
	if h.vision == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo ingestion is not configured"})
		return
	}

	image, mimeType, err := readScanImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image payload"})
		return
	}

	extraction, err := h.vision.ExtractProduct(c.Request.Context(), image, mimeType)
	if err != nil {
		h.logger.Error("vision extraction failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "vision extraction failed"})
		return
	}
	if extraction.Action != string(models.ActionCreate) {
		h.logger.Warn("vision backend proposed unexpected action", zap.String("action", extraction.Action))
		c.JSON(http.StatusBadGateway, gin.H{"error": "vision backend did not propose a CREATE"})
		return
	}

	h.queue.Enqueue(extraction.Data)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Product data extracted and queued for review.",
		"data":    extraction.Data,
	})
}

// Poll hands the next queued candidate to the review UI as a CREATE
// proposal, or answers 204 when nothing is queued.
func (h *ScanHandler) Poll(c *gin.Context) {
	proposal, ok := h.queue.NextProposal()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func readScanImage(c *gin.Context) ([]byte, string, error) {
	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxScanImageBytes))
		if err != nil {
			return nil, "", err
		}
		return data, file.Header.Get("Content-Type"), nil
	}

	// Raw body upload.
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxScanImageBytes))
	if err != nil || len(data) == 0 {
		return nil, "", io.ErrUnexpectedEOF
	}
	return data, c.ContentType(), nil
}
