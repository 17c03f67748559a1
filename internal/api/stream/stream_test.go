package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "cluster_slots/internal/api/dto/slot"
	"cluster_slots/internal/engine"
	"cluster_slots/internal/middleware"
	"cluster_slots/internal/repository/session_mem_repo"
	"cluster_slots/internal/repository/stats_repo"
	slotServ "cluster_slots/internal/service/slot"
	"cluster_slots/pkg/rng"

	"github.com/gorilla/websocket"
)

func newServer(t *testing.T, rules engine.Rules, origins []string) *httptest.Server {
	t.Helper()
	eng, err := engine.New(rules, rng.NewSeeded(4))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	serv := slotServ.NewSlotService(eng, session_mem_repo.NewSessionRepository(), stats_repo.NewStatsRepository(10), nil, nil)
	h := NewHandler(HandlerDeps{Serv: serv, AllowedOrigins: origins})

	srv := httptest.NewServer(middleware.Session(http.HandlerFunc(h.Serve)))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?session=ws-test"
}

func dial(t *testing.T, rules engine.Rules) *websocket.Conn {
	t.Helper()
	srv := newServer(t, rules, nil)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func read(t *testing.T, conn *websocket.Conn) dto.StreamMessage {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg dto.StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func TestStreamSpin(t *testing.T) {
	conn := dial(t, engine.DefaultRules())

	for spin := 0; spin < 3; spin++ {
		if err := conn.WriteJSON(dto.StreamMessage{Type: "spin", Stake: 5}); err != nil {
			t.Fatalf("write: %v", err)
		}
		rounds := 0
		for {
			msg := read(t, conn)
			if msg.Type == "round" {
				if msg.Round == nil || msg.Round.Index != rounds {
					t.Fatalf("round out of order: %+v", msg.Round)
				}
				rounds++
				continue
			}
			if msg.Type != "summary" || msg.Summary == nil || msg.State == nil {
				t.Fatalf("unexpected frame %+v", msg)
			}
			if rounds == 0 {
				t.Fatalf("summary before any round")
			}
			break
		}
	}
}

func TestStreamErrors(t *testing.T) {
	rules := engine.DefaultRules()
	rules.StartingCurrency = 0
	conn := dial(t, rules)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := read(t, conn); msg.Type != "error" {
		t.Fatalf("expected error frame, got %+v", msg)
	}

	if err := conn.WriteJSON(dto.StreamMessage{Type: "spin", Stake: 10}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := read(t, conn)
	if msg.Type != "error" || msg.Code != 402 {
		t.Fatalf("expected insufficient funds frame, got %+v", msg)
	}
}

func TestStreamRejectsForeignOrigin(t *testing.T) {
	srv := newServer(t, engine.DefaultRules(), []string{"https://slots.example"})

	hdr := http.Header{"Origin": []string{"https://evil.example"}}
	_, res, err := websocket.DefaultDialer.Dial(wsURL(srv), hdr)
	if err == nil {
		t.Fatalf("dial from foreign origin succeeded")
	}
	if res == nil || res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", res)
	}

	hdr.Set("Origin", "https://slots.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), hdr)
	if err != nil {
		t.Fatalf("dial from allowed origin: %v", err)
	}
	conn.Close()
}

func TestOriginChecker(t *testing.T) {
	if OriginChecker(nil) != nil {
		t.Fatalf("empty list should keep the same-origin default")
	}
	check := OriginChecker([]string{"https://slots.example"})
	cases := map[string]bool{
		"":                      true,
		"https://slots.example": true,
		"HTTPS://SLOTS.EXAMPLE": true,
		"https://evil.example":  false,
	}
	for origin, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		if got := check(r); got != want {
			t.Fatalf("origin %q: got %v, want %v", origin, got, want)
		}
	}
	if !OriginChecker([]string{"*"})(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatalf("wildcard should allow")
	}
}
