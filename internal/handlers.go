// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package internal

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/mstephen77/cryptoflare/internal/hashers"
)

// Argon2HashHandler handles POST /argon2/hash
func (s *Server) Argon2HashHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req HashRequest
		if e := s.decodeRequest(w, r, &req); e != nil {
			s.writeError(w, e)
			return
		}
		if req.Password == nil {
			s.writeError(w, ErrBadRequest)
			return
		}

		hasher, e := s.argon2Hasher(req.Options)
		if e != nil {
			s.writeError(w, e)
			return
		}

		s.hash(w, hasher, *req.Password)
	}
}

// Argon2VerifyHandler handles POST /argon2/verify
func (s *Server) Argon2VerifyHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.verify(w, r, s.argon2)
	}
}

// BcryptHashHandler handles POST /bcrypt/hash
func (s *Server) BcryptHashHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req HashRequest
		if e := s.decodeRequest(w, r, &req); e != nil {
			s.writeError(w, e)
			return
		}
		if req.Password == nil {
			s.writeError(w, ErrBadRequest)
			return
		}

		hasher, e := s.bcryptHasher(req.Options)
		if e != nil {
			s.writeError(w, e)
			return
		}

		s.hash(w, hasher, *req.Password)
	}
}

// BcryptVerifyHandler handles POST /bcrypt/verify
func (s *Server) BcryptVerifyHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.verify(w, r, s.bcrypt)
	}
}

// InfoHandler handles GET /info
func (s *Server) InfoHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.writeJSON(w, http.StatusOK, s.config.Version)
	}
}

// HealthzHandler handles GET /healthz
func (s *Server) HealthzHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// hash runs a hash operation and shapes the response. It is written
// once against the Hasher capability; the algorithm differences live in
// the hashers themselves.
func (s *Server) hash(w http.ResponseWriter, hasher hashers.Hasher, password string) {
	digest, err := hasher.Hash(password)
	if err != nil {
		log.WithError(err).Errorf("error hashing with %s", hasher.Algorithm())
		s.writeError(w, classifyHashError(err))
		return
	}

	s.writeJSON(w, http.StatusOK, HashResponse{Hash: digest})
}

// verify decodes a VerifyRequest and runs a verify operation against
// the given hasher. Parameters for the comparison come from the hash
// string itself, so the server's configured defaults play no part here.
func (s *Server) verify(w http.ResponseWriter, r *http.Request, hasher hashers.Hasher) {
	var req VerifyRequest
	if e := s.decodeRequest(w, r, &req); e != nil {
		s.writeError(w, e)
		return
	}
	if req.Password == nil || req.Hash == nil {
		s.writeError(w, ErrBadRequest)
		return
	}

	result, err := hasher.Verify(*req.Password, *req.Hash)
	if err != nil {
		log.WithError(err).Debugf("error verifying with %s", hasher.Algorithm())
		s.writeError(w, classifyVerifyError(err))
		return
	}

	s.writeJSON(w, http.StatusOK, VerifyResponse{Result: result})
}

// argon2Hasher returns the hasher for an Argon2id hash request: the
// server default when no options were sent, otherwise one built from
// the complete option tuple.
func (s *Server) argon2Hasher(options json.RawMessage) (hashers.Hasher, *Error) {
	if optionsAbsent(options) {
		return s.argon2, nil
	}

	var opts Argon2Options
	if err := json.Unmarshal(options, &opts); err != nil {
		return nil, ErrBadRequest
	}
	if opts.TimeCost == nil || opts.MemoryCost == nil || opts.Parallelism == nil {
		return nil, ErrBadRequest
	}

	hasher, err := hashers.NewArgon2(hashers.Argon2Options{
		MemoryCost:  *opts.MemoryCost,
		TimeCost:    *opts.TimeCost,
		Parallelism: *opts.Parallelism,
	})
	if err != nil {
		return nil, ErrInvalidHashOptions
	}

	return hasher, nil
}

// bcryptHasher returns the hasher for a bcrypt hash request. The work
// factor is not validated here; the primitive enforces its own range
// and a violation surfaces later as a hash failure.
func (s *Server) bcryptHasher(options json.RawMessage) (hashers.Hasher, *Error) {
	if optionsAbsent(options) {
		return s.bcrypt, nil
	}

	var opts BcryptOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return nil, ErrBadRequest
	}
	if opts.WorkFactor == nil {
		return nil, ErrBadRequest
	}

	return hashers.NewBcrypt(hashers.BcryptOptions{WorkFactor: *opts.WorkFactor}), nil
}

func optionsAbsent(options json.RawMessage) bool {
	return len(options) == 0 || string(options) == "null"
}
