package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/auth"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, email string, expiresAt time.Time) string {
	t.Helper()
	claims := auth.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	Convey("Given a signing secret", t, func() {
		Convey("When parsing a valid token", func() {
			token := signToken(t, "alice@example.com", time.Now().Add(time.Hour))
			claims, err := auth.ParseToken(token, testSecret)

			Convey("Then the claims come back", func() {
				So(err, ShouldBeNil)
				So(claims.Email, ShouldEqual, "alice@example.com")
			})
		})

		Convey("When parsing an expired token", func() {
			token := signToken(t, "alice@example.com", time.Now().Add(-time.Hour))
			_, err := auth.ParseToken(token, testSecret)

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the secret does not match", func() {
			token := signToken(t, "alice@example.com", time.Now().Add(time.Hour))
			_, err := auth.ParseToken(token, []byte("other-secret"))

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the token is empty", func() {
			_, err := auth.ParseToken("", testSecret)
			So(err, ShouldNotBeNil)
		})

		Convey("When the token uses an unexpected algorithm", func() {
			none := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{Email: "x@y"})
			raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
			So(err, ShouldBeNil)

			_, err = auth.ParseToken(raw, testSecret)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := auth.ClaimsFrom(r.Context()); ok {
			w.Header().Set("X-Email", claims.Email)
		}
		w.WriteHeader(http.StatusOK)
	})

	Convey("Given an enabled middleware", t, func() {
		mw := auth.NewMiddleware(testSecret)
		So(mw.Enabled(), ShouldBeTrue)
		handler := mw.Wrap(okHandler)

		Convey("When the request has no token", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/s1", nil))

			Convey("Then it is rejected with 401", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the request carries a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/report/s1", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When the request carries a valid token", func() {
			req := httptest.NewRequest(http.MethodGet, "/report/s1", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, "bob@example.com", time.Now().Add(time.Hour)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			Convey("Then claims reach the handler context", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("X-Email"), ShouldEqual, "bob@example.com")
			})
		})
	})

	Convey("Given a disabled middleware", t, func() {
		mw := auth.NewMiddleware(nil)
		So(mw.Enabled(), ShouldBeFalse)

		Convey("When wrapping a handler", func() {
			handler := mw.Wrap(okHandler)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/s1", nil))

			Convey("Then requests pass through untouched", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestResolver(t *testing.T) {
	Convey("Given the claims resolver", t, func() {
		r := auth.ClaimsResolver{}

		Convey("When the context has an email claim", func() {
			ctx := auth.WithClaims(context.Background(), &auth.Claims{Email: "carol.smith@example.com"})

			Convey("Then the local part becomes the name", func() {
				So(r.NameFor(ctx, "abc123"), ShouldEqual, "carol.smith")
			})
		})

		Convey("When the context has no claims", func() {
			name := r.NameFor(context.Background(), "session-7f3a9c")

			Convey("Then the placeholder uses the session suffix", func() {
				So(name, ShouldEqual, "Candidate_7f3a9c")
			})
		})

		Convey("When the session id is short", func() {
			So(r.NameFor(context.Background(), "ab"), ShouldEqual, "Candidate_ab")
		})

		Convey("When the session id is empty", func() {
			So(auth.PlaceholderName(""), ShouldEqual, "Anonymous Candidate")
		})
	})
}
