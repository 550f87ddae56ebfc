package bus

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
)

// Requests, one per line.
const (
	CmdAudio    = "AUDIO"  // AUDIO <wav path>
	CmdPass     = "PASS"   // run one render pass
	CmdFresh    = "FRESH"  // new recording
	CmdText     = "TEXT"   // TEXT <quote>
	CmdSubmit   = "SUBMIT" // SUBMIT [exponent]
	CmdStatus   = "STATUS"
	CmdLog      = "LOG"
	CmdVersion  = "VERSION"
	CmdQuit     = "QUIT"
	CmdShutdown = "SHUTDOWN"
)

// Response line kinds. OK, ERR and STATUS end a reply; NOTIFY and ROW come before.
const (
	KindOK     = "OK"
	KindErr    = "ERR"
	KindStatus = "STATUS"
	KindNotify = "NOTIFY"
	KindRow    = "ROW"
)

// Reply is everything the daemon wrote for one request.
type Reply struct {
	Kind    string
	Text    string
	Notices []string
	Rows    []string
}

func (r Reply) Err() error {
	if r.Kind == KindErr {
		return fmt.Errorf("daemon: %s", r.Text)
	}
	return nil
}

// Line renders the terminal line as the daemon sent it.
func (r Reply) Line() string {
	if r.Text == "" {
		return r.Kind
	}
	return r.Kind + " " + r.Text
}

// Client speaks the line protocol over one connection, which is one session.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
}

// Connect dials the daemon and reads its greeting.
func Connect() (*Client, Reply, error) {
	conn, err := Dial()
	if err != nil {
		return nil, Reply{}, err
	}
	c := NewClient(conn)
	greeting, err := c.ReadReply()
	if err != nil {
		conn.Close()
		return nil, Reply{}, err
	}
	return c, greeting, nil
}

func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, r: bufio.NewReader(conn)}
}

// Send writes one request line and waits for the full reply.
func (c *Client) Send(cmd string, args ...string) (Reply, error) {
	line := cmd
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	line = strings.ReplaceAll(line, "\n", " ")
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return Reply{}, err
	}
	return c.ReadReply()
}

func (c *Client) ReadReply() (Reply, error) {
	var reply Reply
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return reply, err
		}
		kind, text := SplitLine(strings.TrimRight(line, "\r\n"))
		switch kind {
		case KindNotify:
			reply.Notices = append(reply.Notices, text)
		case KindRow:
			reply.Rows = append(reply.Rows, text)
		default:
			reply.Kind = kind
			reply.Text = text
			return reply, nil
		}
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// SplitLine separates the leading word of a protocol line from the rest.
func SplitLine(line string) (string, string) {
	head, rest, _ := strings.Cut(line, " ")
	return head, rest
}

// SendCommand opens a short-lived session, sends one request and closes it.
func SendCommand(cmd string, args ...string) (Reply, error) {
	c, _, err := Connect()
	if err != nil {
		return Reply{}, err
	}
	defer c.Close()
	return c.Send(cmd, args...)
}
