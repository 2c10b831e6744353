package internal

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// HashRequest is the body of a hash operation. Pointer fields make a
// missing field distinguishable from a present-but-empty one: password
// is required but an empty password is legal input.
type HashRequest struct {
	Password *string `json:"password"`

	// Options is the algorithm specific parameter block; absent (or
	// null) means the server defaults apply.
	Options json.RawMessage `json:"options,omitempty"`
}

// HashResponse carries the encoded digest string. The string embeds
// algorithm, parameters and salt, so it is all a caller needs to store
// for later verification.
type HashResponse struct {
	Hash string `json:"hash"`
}

// VerifyRequest is the body of a verify operation.
type VerifyRequest struct {
	Password *string `json:"password"`
	Hash     *string `json:"hash"`
}

// VerifyResponse reports whether the password matched. A wrong password
// is result=false with status 200, never an error.
type VerifyResponse struct {
	Result bool `json:"result"`
}

// Argon2Options is the wire form of the Argon2id parameter tuple. All
// three fields are required whenever the block is present; partial
// tuples are rejected at parse time, not defaulted field by field.
type Argon2Options struct {
	TimeCost    *uint32 `json:"time_cost"`
	MemoryCost  *uint32 `json:"memory_cost"`
	Parallelism *uint32 `json:"parallelism"`
}

// BcryptOptions is the wire form of the bcrypt parameter.
type BcryptOptions struct {
	WorkFactor *uint32 `json:"work_factor"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeRequest decodes the request body into v, capping the body at
// the configured maximum size. Any decoding problem is a BadRequest.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) *Error {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.WithError(err).Debug("error decoding request body")
		return ErrBadRequest
	}

	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("error serialising response")
		s.writeError(w, ErrInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.WithError(err).Warn("error writing response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, e *Error) {
	body, err := json.Marshal(errorResponse{Error: e.Message})
	if err != nil {
		http.Error(w, e.Message, e.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_, _ = w.Write(body)
}
