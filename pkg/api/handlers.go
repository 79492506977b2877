package api

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/indexer"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
	idx "github.com/goran-ethernal/StateIndexor/pkg/indexer"
)

const (
	encodingHex = "hex"
	encodingRaw = "raw"
)

// Store is the committed view of the primary store.
type Store interface {
	Get(key []byte) ([]byte, bool, error)
}

// UndoAuditor exposes the retained undo history.
type UndoAuditor interface {
	Window() uint64
	Tip() (uint64, bool, error)
	Oldest() (uint64, bool, error)
	Marker(height uint64) (*undo.BlockMarker, error)
	Records(height uint64) ([]*undo.Record, error)
}

// StatusProvider reports the state of the indexing loop.
type StatusProvider interface {
	Status() indexer.Status
}

// Backend bundles what the API reads from. Every read sees committed
// blocks only.
type Backend struct {
	Store     Store
	Undo      UndoAuditor
	Status    StatusProvider
	Consumers []idx.Consumer
}

// Handler handles HTTP requests for the API.
type Handler struct {
	backend Backend
	log     *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(backend Backend, log *logger.Logger) *Handler {
	return &Handler{
		backend: backend,
		log:     log,
	}
}

// Health returns the state of the indexing loop.
// @Summary Health check
// @Description Report whether indexing is running, halted or view-only together with the current heights
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Indexing is running or view-only"
// @Failure 503 {object} HealthResponse "Indexing is halted"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.backend.Status.Status()

	response := HealthResponse{
		Status:        "ok",
		State:         string(st.State),
		Timestamp:     time.Now(),
		IndexedHeight: st.IndexedHeight,
		UpstreamTip:   st.UpstreamTip,
		SourceTip:     st.SourceTip,
	}

	status := http.StatusOK
	if st.State == indexer.StateHalted {
		response.Status = "halted"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, response)
}

// GetStatus returns the indexing loop, consumer and undo log status.
// @Summary Indexing status
// @Description Coordinator and per consumer indexed heights, retained undo range and the last error
// @Tags Status
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.backend.Status.Status()

	response := StatusResponse{
		State:         string(st.State),
		IndexedHeight: st.IndexedHeight,
		UpstreamTip:   st.UpstreamTip,
		SourceTip:     st.SourceTip,
		LastError:     st.LastError,
		Consumers:     make([]ConsumerStatus, 0, len(h.backend.Consumers)),
	}
	if !st.LastBlockAt.IsZero() {
		response.LastBlockAt = &st.LastBlockAt
	}

	for _, c := range h.backend.Consumers {
		cs := ConsumerStatus{Name: c.Name(), GenesisHeight: c.GenesisHeight()}
		height, ok, err := idx.ConsumerHeight(h.backend.Store, c.Name())
		if err != nil {
			h.log.Errorw("failed to read consumer height", "consumer", c.Name(), "error", err)
			respondError(w, http.StatusInternalServerError, "failed to read consumer height")
			return
		}
		if ok {
			cs.IndexedHeight = &height
		}
		response.Consumers = append(response.Consumers, cs)
	}

	undoRange, err := h.undoRange()
	if err != nil {
		h.log.Errorw("failed to read undo range", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read undo log")
		return
	}
	response.Undo = undoRange

	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) undoRange() (UndoRange, error) {
	out := UndoRange{Window: h.backend.Undo.Window()}

	tip, ok, err := h.backend.Undo.Tip()
	if err != nil {
		return out, err
	}
	if ok {
		out.Tip = &tip
	}

	oldest, ok, err := h.backend.Undo.Oldest()
	if err != nil {
		return out, err
	}
	if ok {
		out.Oldest = &oldest
	}

	return out, nil
}

// GetValue returns the committed value of a key.
// @Summary Get a value
// @Description Read the committed value of a primary store key. The key is taken from the path or the key query parameter.
// @Tags State
// @Produce json
// @Param key path string true "Key"
// @Param key_encoding query string false "Encoding of the key" Enums(raw, hex) default(raw)
// @Param encoding query string false "Encoding of the value" Enums(raw, hex) default(hex)
// @Success 200 {object} ValueResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 404 {object} ErrorResponse "Key not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /kv/{key} [get]
func (h *Handler) GetValue(w http.ResponseWriter, r *http.Request) {
	key, encoding, err := parseKeyParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, ok, err := h.backend.Store.Get(key)
	if err != nil {
		h.log.Errorw("failed to read key", "key", string(key), "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read key")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("key %q not found", key))
		return
	}

	respondJSON(w, http.StatusOK, ValueResponse{
		Key:      string(key),
		Encoding: encoding,
		Value:    encode(value, encoding),
	})
}

// GetList returns every element of a list.
// @Summary Get a list
// @Description Read a list stored under the "{key}/length" and "{key}/{idx}" convention
// @Tags State
// @Produce json
// @Param key path string true "List key"
// @Param key_encoding query string false "Encoding of the key" Enums(raw, hex) default(raw)
// @Param encoding query string false "Encoding of the elements" Enums(raw, hex) default(hex)
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /list/{key} [get]
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	key, encoding, err := parseKeyParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	values, err := kvstore.ListAll(h.backend.Store, key)
	if err != nil {
		h.log.Errorw("failed to read list", "key", string(key), "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read list")
		return
	}

	response := ListResponse{
		Key:      string(key),
		Encoding: encoding,
		Length:   len(values),
		Values:   make([]string, 0, len(values)),
	}
	for _, v := range values {
		response.Values = append(response.Values, encode(v, encoding))
	}

	respondJSON(w, http.StatusOK, response)
}

// GetUndo returns the undo records of a retained height.
// @Summary Audit undo records
// @Description List the undo records of a height still inside the rollback window, in mutation order
// @Tags Undo
// @Produce json
// @Param height path integer true "Block height"
// @Success 200 {object} UndoResponse
// @Failure 400 {object} ErrorResponse "Invalid height"
// @Failure 404 {object} ErrorResponse "Height not retained"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /undo/{height} [get]
func (h *Handler) GetUndo(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseUint(r.PathValue("height"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid height")
		return
	}

	marker, err := h.backend.Undo.Marker(height)
	if err != nil {
		h.log.Errorw("failed to read undo marker", "height", height, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read undo log")
		return
	}
	if marker == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("height %d is not retained in the undo log", height))
		return
	}

	records, err := h.backend.Undo.Records(height)
	if err != nil {
		h.log.Errorw("failed to read undo records", "height", height, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read undo log")
		return
	}

	response := UndoResponse{
		Height:      marker.Height,
		BlockHash:   marker.BlockHash,
		CommittedAt: time.Unix(marker.CommittedAt, 0).UTC(),
		Records:     make([]UndoRecord, 0, len(records)),
	}
	for _, rec := range records {
		ur := UndoRecord{Seq: rec.Seq, Op: string(rec.Op), Key: string(rec.Key)}
		if rec.PriorExists() {
			prior := hex.EncodeToString(rec.Prior)
			ur.Prior = &prior
		}
		response.Records = append(response.Records, ur)
	}

	respondJSON(w, http.StatusOK, response)
}

// parseKeyParams reads the key from the path or the key query parameter
// and the value encoding.
func parseKeyParams(r *http.Request) ([]byte, string, error) {
	q := r.URL.Query()

	raw := q.Get("key")
	if raw == "" {
		raw = r.PathValue("key")
	}
	if raw == "" {
		return nil, "", fmt.Errorf("key is required")
	}

	var key []byte
	switch q.Get("key_encoding") {
	case "", encodingRaw:
		key = []byte(raw)
	case encodingHex:
		decoded, err := hex.DecodeString(raw)
		if err != nil {
			return nil, "", fmt.Errorf("invalid hex key: %w", err)
		}
		key = decoded
	default:
		return nil, "", fmt.Errorf("invalid key_encoding: must be 'raw' or 'hex'")
	}

	encoding := q.Get("encoding")
	switch encoding {
	case "":
		encoding = encodingHex
	case encodingHex, encodingRaw:
	default:
		return nil, "", fmt.Errorf("invalid encoding: must be 'raw' or 'hex'")
	}

	return key, encoding, nil
}

func encode(value []byte, encoding string) string {
	if encoding == encodingRaw {
		return string(value)
	}
	return hex.EncodeToString(value)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// encode first so a failure can still change the status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	respondJSON(w, status, response)
}
