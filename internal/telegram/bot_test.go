package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoHandler struct{}

func (echoHandler) Handle(_ context.Context, userID int64, text string) string {
	return fmt.Sprintf("echo %d: %s", userID, text)
}

// fakeBotAPI serves just enough of the Bot API for one polled update.
type fakeBotAPI struct {
	mu      sync.Mutex
	updates string
	served  bool
	sent    chan string
}

func (f *fakeBotAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"relay","username":"relaybot"}}`)
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			f.mu.Lock()
			body := `{"ok":true,"result":[]}`
			if !f.served {
				f.served = true
				body = fmt.Sprintf(`{"ok":true,"result":[%s]}`, f.updates)
			}
			f.mu.Unlock()
			fmt.Fprint(w, body)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			r.ParseForm()
			f.sent <- r.FormValue("text")
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":2,"date":1,"chat":{"id":5,"type":"private"}}}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":{}}`)
		}
	}
}

func runBot(t *testing.T, update string) string {
	t.Helper()

	fake := &fakeBotAPI{updates: update, sent: make(chan string, 1)}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	bot, err := newBot("test-token", srv.URL+"/bot%s/%s", echoHandler{}, zap.NewNop().Sugar())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bot.Run(ctx)

	select {
	case text := <-fake.sent:
		return text
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
		return ""
	}
}

func textUpdate(text string) string {
	msg := map[string]any{
		"message_id": 10,
		"date":       1,
		"text":       text,
		"from":       map[string]any{"id": 7, "is_bot": false, "first_name": "u"},
		"chat":       map[string]any{"id": 5, "type": "private"},
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.SplitN(text, " ", 2)[0]
		msg["entities"] = []map[string]any{
			{"type": "bot_command", "offset": 0, "length": len(cmd)},
		}
	}
	b, _ := json.Marshal(map[string]any{"update_id": 1, "message": msg})
	return string(b)
}

func TestTextMessageGoesThroughHandler(t *testing.T) {
	got := runBot(t, textUpdate("hello"))
	require.Equal(t, "echo 7: hello", got)
}

func TestStartCommandRepliesWithGreeting(t *testing.T) {
	got := runBot(t, textUpdate("/start"))
	require.Equal(t, Welcome, got)
}
