package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/mstephen77/cryptoflare/internal/hashers"
)

var bind string

func makeURL(partialURL string, args ...interface{}) string {
	if len(args) > 0 {
		partialURL = fmt.Sprintf(partialURL, args...)
	}
	return fmt.Sprintf("http://%s%s", bind, partialURL)
}

func waitForServer() error {
	for i := 0; i < 50; i++ {
		conn, err := net.DialTimeout("tcp", bind, 100*time.Millisecond)
		if err == nil {
			return conn.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server at %s never came up", bind)
}

func TestMain(m *testing.M) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.WithError(err).Error("error finding free test port")
		os.Exit(-1)
	}
	bind = listener.Addr().String()
	listener.Close()

	server, err := NewServer(
		bind,
		WithArgon2Defaults(hashers.Argon2Options{MemoryCost: 8, TimeCost: 1, Parallelism: 1}),
		WithBcryptWorkFactor(uint32(bcrypt.MinCost)),
	)
	if err != nil {
		log.WithError(err).Error("error starting test server")
		os.Exit(-1)
	}

	var eg errgroup.Group

	eg.Go(func() error {
		return server.Run()
	})

	if err := waitForServer(); err != nil {
		log.WithError(err).Error("error waiting for test server")
		os.Exit(-1)
	}

	code := m.Run()

	if err := server.Shutdown(context.Background()); err != nil {
		log.WithError(err).Error("error shutting down test server")
	}
	if err := eg.Wait(); err != nil {
		log.WithError(err).Error("error running test server")
	}

	os.Exit(code)
}

func TestInfo(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	e.GET("/info").
		Expect().
		Status(http.StatusOK).
		Body().Contains("cryptoflared")
}

func TestArgon2RoundTrip(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	hash := e.POST("/argon2/hash").
		WithJSON(map[string]interface{}{"password": "correct horse"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("hash").String()

	hash.Contains("$argon2id$")

	e.POST("/argon2/verify").
		WithJSON(map[string]interface{}{"password": "correct horse", "hash": hash.Raw()}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().ValueEqual("result", true)

	e.POST("/argon2/verify").
		WithJSON(map[string]interface{}{"password": "battery staple", "hash": hash.Raw()}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().ValueEqual("result", false)
}

func TestArgon2ExplicitOptionsRoundTrip(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	hash := e.POST("/argon2/hash").
		WithJSON(map[string]interface{}{
			"password": "hunter2",
			"options": map[string]interface{}{
				"time_cost":   1,
				"memory_cost": 16,
				"parallelism": 2,
			},
		}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("hash").String()

	hash.Contains("m=16,t=1,p=2")

	e.POST("/argon2/verify").
		WithJSON(map[string]interface{}{"password": "hunter2", "hash": hash.Raw()}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().ValueEqual("result", true)
}

func TestArgon2SaltFreshness(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	body := map[string]interface{}{"password": "same password"}

	hash1 := e.POST("/argon2/hash").WithJSON(body).
		Expect().Status(http.StatusOK).
		JSON().Object().Value("hash").String().Raw()

	hash2 := e.POST("/argon2/hash").WithJSON(body).
		Expect().Status(http.StatusOK).
		JSON().Object().Value("hash").String().Raw()

	if hash1 == hash2 {
		t.Errorf("two hash calls produced the same digest: %q", hash1)
	}
}

func TestArgon2InvalidOptions(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	// memory below the minimum for the requested parallelism
	e.POST("/argon2/hash").
		WithJSON(map[string]interface{}{
			"password": "x",
			"options": map[string]interface{}{
				"time_cost":   1,
				"memory_cost": 8,
				"parallelism": 4,
			},
		}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().ValueEqual("error", "Invalid option for specified hash algorithm.")
}

func TestArgon2PartialOptions(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	e.POST("/argon2/hash").
		WithJSON(map[string]interface{}{
			"password": "x",
			"options":  map[string]interface{}{"time_cost": 1},
		}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().ValueEqual("error", "Bad request.")
}

func TestBcryptScenario(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	hash := e.POST("/bcrypt/hash").
		WithJSON(map[string]interface{}{"password": "correct horse"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("hash").String()

	hash.Contains("$2a$")

	e.POST("/bcrypt/verify").
		WithJSON(map[string]interface{}{"password": "correct horse", "hash": hash.Raw()}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().ValueEqual("result", true)

	e.POST("/bcrypt/verify").
		WithJSON(map[string]interface{}{"password": "wrong", "hash": hash.Raw()}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().ValueEqual("result", false)
}

func TestBcryptExplicitWorkFactor(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	hash := e.POST("/bcrypt/hash").
		WithJSON(map[string]interface{}{
			"password": "hunter2",
			"options":  map[string]interface{}{"work_factor": 5},
		}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("hash").String()

	hash.Contains("$2a$05$")
}

func TestBcryptOutOfRangeWorkFactor(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	e.POST("/bcrypt/hash").
		WithJSON(map[string]interface{}{
			"password": "x",
			"options":  map[string]interface{}{"work_factor": 99},
		}).
		Expect().
		Status(http.StatusInternalServerError).
		JSON().Object().ValueEqual("error", "Hash failed.")
}

func TestCrossAlgorithmIsolation(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	bcryptHash := e.POST("/bcrypt/hash").
		WithJSON(map[string]interface{}{"password": "correct horse"}).
		Expect().Status(http.StatusOK).
		JSON().Object().Value("hash").String().Raw()

	// A bcrypt digest is not a parseable argon2 hash.
	e.POST("/argon2/verify").
		WithJSON(map[string]interface{}{"password": "correct horse", "hash": bcryptHash}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().ValueEqual("error", "Invalid hash")

	argon2Hash := e.POST("/argon2/hash").
		WithJSON(map[string]interface{}{"password": "correct horse"}).
		Expect().Status(http.StatusOK).
		JSON().Object().Value("hash").String().Raw()

	// And an argon2 digest fails bcrypt verification outright.
	e.POST("/bcrypt/verify").
		WithJSON(map[string]interface{}{"password": "correct horse", "hash": argon2Hash}).
		Expect().
		Status(http.StatusInternalServerError).
		JSON().Object().ValueEqual("error", "Verification failed.")
}

func TestMalformedRequests(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	endpoints := []string{"/argon2/hash", "/argon2/verify", "/bcrypt/hash", "/bcrypt/verify"}

	for _, endpoint := range endpoints {
		// empty body
		e.POST(endpoint).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().ValueEqual("error", "Bad request.")

		// non-JSON body
		e.POST(endpoint).
			WithText("not json").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().ValueEqual("error", "Bad request.")

		// missing password
		e.POST(endpoint).
			WithJSON(map[string]interface{}{}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().ValueEqual("error", "Bad request.")
	}
}

func TestUnknownRoutes(t *testing.T) {
	e := httpexpect.New(t, makeURL(""))

	e.GET("/argon2/hash").
		Expect().
		Status(http.StatusNotFound).
		JSON().Object().ValueEqual("error", "Not found.")

	e.POST("/unknown").
		Expect().
		Status(http.StatusNotFound).
		JSON().Object().ValueEqual("error", "Not found.")
}
