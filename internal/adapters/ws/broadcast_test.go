package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/adapters/ws"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/types"
	"github.com/okian/vigil/pkg/logger"
)

func TestBroadcaster(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Convey("Given a broadcaster behind a test server", t, func() {
		b := ws.NewBroadcaster()
		mux := http.NewServeMux()
		mux.HandleFunc("/alerts/ws", b.HandleAlerts)
		srv := httptest.NewServer(mux)
		Reset(func() {
			b.Close()
			srv.Close()
		})

		wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/alerts/ws"

		Convey("When a subscriber connects and an alert is published", func() {
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
			So(err, ShouldBeNil)
			if resp != nil {
				resp.Body.Close()
			}
			defer conn.Close()

			ev := model.Event{
				EventID:   "ev-1",
				SessionID: "session-1",
				Type:      model.AlertMultipleFaces,
				Timestamp: time.Now(),
				Message:   "2 faces detected in the frame.",
			}
			// Give the server a beat to register the client.
			time.Sleep(20 * time.Millisecond)
			b.Publish(ev)

			Convey("Then the alert arrives as JSON", func() {
				So(conn.SetReadDeadline(time.Now().Add(time.Second)), ShouldBeNil)
				_, data, err := conn.ReadMessage()
				So(err, ShouldBeNil)

				var alert types.Alert
				So(json.Unmarshal(data, &alert), ShouldBeNil)
				So(alert.SessionID, ShouldEqual, "session-1")
				So(alert.AlertType, ShouldEqual, "MULTIPLE_FACES")
				So(alert.Message, ShouldEqual, "2 faces detected in the frame.")
			})
		})

		Convey("When no subscribers are connected", func() {
			Convey("Then publishing is a harmless no-op", func() {
				b.Publish(model.Event{SessionID: "s", Type: model.AlertLookingAway, Timestamp: time.Now()})
			})
		})

		Convey("When a subscriber disconnects", func() {
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
			So(err, ShouldBeNil)
			if resp != nil {
				resp.Body.Close()
			}
			conn.Close()
			time.Sleep(20 * time.Millisecond)

			Convey("Then later publishes still succeed", func() {
				b.Publish(model.Event{SessionID: "s", Type: model.AlertLookingAway, Timestamp: time.Now()})
			})
		})
	})
}
