// Command ws_smoke is a manual smoke client for a running parley server.
// It logs in (or registers) over the REST API, opens a websocket session
// and prints every event the server pushes. With -room and -text it also
// joins a room and sends a message.
//
// Usage:
//
//	go run ./scripts/ws_smoke -addr http://localhost:8080 -username alice -password secret1 -register
//	go run ./scripts/ws_smoke -username alice -password secret1 -room 1 -text "hello"
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/parleychat/parley-server/internal/proto"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	username := flag.String("username", "smoke", "account username")
	password := flag.String("password", "secret1", "account password")
	register := flag.Bool("register", false, "register the account before logging in")
	roomID := flag.Int64("room", 0, "room to join after connecting")
	text := flag.String("text", "", "message to send after joining")
	listen := flag.Duration("listen", 30*time.Second, "how long to keep printing events")
	flag.Parse()

	if err := run(*addr, *username, *password, *register, *roomID, *text, *listen); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(addr, username, password string, register bool, roomID int64, text string, listen time.Duration) error {
	token, err := authenticate(addr, username, password, register)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	fmt.Println("authenticated as", username)

	ctx, cancel := context.WithTimeout(context.Background(), listen+10*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(addr, "http") + "/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "smoke test done")

	if roomID != 0 {
		if err := send(ctx, conn, proto.InboundJoinRoom, proto.RoomRefData{RoomID: roomID}); err != nil {
			return err
		}
		if text != "" {
			if err := send(ctx, conn, proto.InboundSendMessage, proto.SendMessageData{RoomID: roomID, Text: text}); err != nil {
				return err
			}
		}
	}

	deadline := time.Now().Add(listen)
	for time.Now().Before(deadline) {
		readCtx, readCancel := context.WithDeadline(ctx, deadline)
		var event struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		err := wsjson.Read(readCtx, conn, &event)
		readCancel()
		if err != nil {
			if readCtx.Err() != nil {
				break
			}
			return fmt.Errorf("read event: %w", err)
		}
		fmt.Printf("<- %-16s %s\n", event.Type, string(event.Data))
	}

	return nil
}

func send(ctx context.Context, conn *websocket.Conn, msgType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}
	fmt.Printf("-> %s %s\n", msgType, string(raw))
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: raw}); err != nil {
		return fmt.Errorf("write %s: %w", msgType, err)
	}
	return nil
}

func authenticate(addr, username, password string, register bool) (string, error) {
	if register {
		body := map[string]string{
			"username": username,
			"email":    username + "@example.com",
			"password": password,
		}
		// Conflict means the account already exists; fall through to login.
		if status, err := postJSON(addr+"/api/register", body, nil); err != nil {
			return "", err
		} else if status != http.StatusCreated && status != http.StatusConflict {
			return "", fmt.Errorf("register returned status %d", status)
		}
	}

	var resp struct {
		Token string `json:"token"`
	}
	status, err := postJSON(addr+"/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", status)
	}
	return resp.Token, nil
}

func postJSON(url string, body, out any) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
