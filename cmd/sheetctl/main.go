// Command sheetctl is an interactive debug console that dials a running
// sheetd server and lets an operator issue set/eval commands by hand.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/gorilla/websocket"
	"golang.org/x/term"

	"sheetd/cellref"
	"sheetd/session"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: sheetctl <host:port>")
		os.Exit(2)
	}
	addr := os.Args[1]

	u := url.URL{Scheme: "ws", Host: addr, Path: "/"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	go readLoop(conn)
	runConsole(conn)
}

func readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg session.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			fmt.Fprintf(os.Stderr, "<- malformed reply: %v\n", err)
			continue
		}
		printReply(msg)
	}
}

func printReply(msg session.Message) {
	switch msg.MsgType {
	case session.MsgBulk:
		for _, m := range msg.BulkMsgs {
			printReply(m)
		}
	default:
		cell := ""
		if msg.Cell != nil {
			cell = msg.Cell.String()
		}
		evalStr := ""
		if msg.Eval != nil {
			evalStr = msg.Eval.String()
		}
		fmt.Printf("<- %s %s = %s\n", msg.MsgType, cell, evalStr)
	}
}

// runConsole reads "set A1 =1+2" / "eval A1 =1+2" lines and forwards them as
// session.Message JSON. The prompt is only printed when stdin is a real
// terminal, so piping commands into sheetctl for scripting stays clean.
func runConsole(conn *websocket.Conn) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	prompt := func() {
		if interactive {
			fmt.Print("sheetctl> ")
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			prompt()
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if err := dispatch(conn, line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		prompt()
	}
}

func dispatch(conn *websocket.Conn, line string) error {
	parts, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("shlex.Split: %w", err)
	}
	if len(parts) < 3 {
		return fmt.Errorf("usage: set|eval <cell> <raw...>")
	}

	verb := parts[0]
	ref, err := cellref.Parse(parts[1])
	if err != nil {
		return err
	}
	raw := strings.Join(parts[2:], " ")

	var msgType session.MsgType
	switch verb {
	case "set":
		msgType = session.MsgSet
	case "eval":
		msgType = session.MsgEval
	default:
		return fmt.Errorf("unknown command %q", verb)
	}

	msg := session.Message{MsgType: msgType, Cell: &ref, Raw: &raw}
	return conn.WriteJSON(msg)
}
