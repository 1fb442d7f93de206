package api

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/hashing"
	"github.com/maksimkurb/blocklist-attest/src/internal/lists"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/metrics"
	"github.com/maksimkurb/blocklist-attest/src/internal/signing"
)

// Handler serves one blocklist and its signature.
type Handler struct {
	blocklistPath string
	signaturePath string
	// publicKey may be nil, in which case signatures are served unchecked.
	publicKey ed25519.PublicKey
}

// NewHandler creates a handler for the given file pair.
func NewHandler(blocklistPath, signaturePath string, publicKey ed25519.PublicKey) *Handler {
	return &Handler{
		blocklistPath: blocklistPath,
		signaturePath: signaturePath,
		publicKey:     publicKey,
	}
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// CheckHealth reports liveness.
// GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// GetBlocklist serves the blocklist bytes.
// GET /blocklist.txt
func (h *Handler) GetBlocklist(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, h.blocklistPath, "blocklist")
}

// GetSignature serves the detached signature.
// GET /blocklist.txt.sig
func (h *Handler) GetSignature(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, h.signaturePath, "signature")
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, path, resource string) {
	data, sum, err := hashing.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			WriteNotFound(w, resource)
			return
		}
		log.Errorf("Failed to read %s: %v", path, err)
		WriteInternalError(w, "failed to read "+resource)
		return
	}

	modTime := time.Time{}
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("ETag", `"`+sum+`"`)
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "", modTime, bytes.NewReader(data))
}

// GetStatus describes the blocklist on disk and re-verifies its signature
// when a public key is configured.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	data, sum, err := hashing.ReadFile(h.blocklistPath)
	if err != nil {
		if os.IsNotExist(err) {
			WriteNotFound(w, "blocklist")
			return
		}
		log.Errorf("Failed to read %s: %v", h.blocklistPath, err)
		WriteInternalError(w, "failed to read blocklist")
		return
	}

	doc := lists.Parse(data)
	metrics.Entries.Set(float64(doc.Count()))

	resp := StatusResponse{
		Entries:     doc.Count(),
		GeneratedAt: doc.GeneratedDate(),
		SHA256:      sum,
		Size:        len(data),
	}
	if h.publicKey != nil {
		resp.PublicKey = signing.EncodeBase64(h.publicKey)
	}

	artifact, err := os.ReadFile(h.signaturePath)
	switch {
	case err == nil:
		resp.SignaturePresent = true
	case !os.IsNotExist(err):
		log.Warnf("Failed to read %s: %v", h.signaturePath, err)
	}

	if h.publicKey != nil {
		valid := false
		if resp.SignaturePresent {
			if verr := signing.VerifyBytes(data, artifact, h.publicKey); verr != nil {
				resp.SignatureError = verr.Error()
			} else {
				valid = true
			}
		} else {
			resp.SignatureError = "signature file not found"
		}
		resp.SignatureValid = &valid
		metrics.SetSignatureValid(valid)
	}

	writeJSONData(w, resp)
}
