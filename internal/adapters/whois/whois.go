// Package whois consulta WHOIS con github.com/likexian/whois (IANA y
// seguimiento del servidor del registrar) y normaliza la respuesta con
// github.com/likexian/whois-parser.
package whois

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	likewhois "github.com/likexian/whois"
	"golang.org/x/net/proxy"

	"evidence-lens/internal/core/analysis"
	apperrors "evidence-lens/internal/platform/errors"
)

var (
	// ErrNotFound indica que el registro no tiene datos del dominio.
	ErrNotFound = errors.New("domain not found")
	// ErrRestricted indica que el servidor rechazó la consulta.
	ErrRestricted = errors.New("query refused by server")
)

// Client consulta WHOIS. Es seguro para uso concurrente.
type Client struct {
	timeout time.Duration
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

// New crea un cliente; timeout acota cada consulta.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d := &net.Dialer{Timeout: timeout}
	return &Client{timeout: timeout, dial: d.DialContext}
}

// Lookup devuelve los campos normalizados del dominio.
func (c *Client) Lookup(ctx context.Context, domain string) (analysis.WhoisInfo, error) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return analysis.WhoisInfo{}, errors.New("whois: empty domain")
	}

	raw, err := c.query(ctx, domain)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return analysis.WhoisInfo{}, apperrors.NewNetworkError("whois", domain, ctxErr)
		}
		return analysis.WhoisInfo{}, apperrors.NewNetworkError("whois", domain, err)
	}

	info, err := Parse(raw)
	if err != nil {
		return analysis.WhoisInfo{}, apperrors.NewNetworkError("whois", domain, err)
	}
	return info, nil
}

// query usa un cliente nuevo por consulta para atar el dialer a ctx.
func (c *Client) query(ctx context.Context, domain string) (string, error) {
	client := likewhois.NewClient().
		SetTimeout(c.timeout).
		SetDialer(ctxDialer{ctx: ctx, dial: c.dial})
	return client.Whois(domain)
}

// ctxDialer adapta un DialContext a proxy.Dialer y cierra la conexión si
// ctx se cancela a mitad de lectura.
type ctxDialer struct {
	ctx  context.Context
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

var _ proxy.Dialer = ctxDialer{}

func (d ctxDialer) Dial(network, addr string) (net.Conn, error) {
	conn, err := d.dial(d.ctx, network, addr)
	if err != nil {
		return nil, err
	}
	stop := context.AfterFunc(d.ctx, func() { _ = conn.Close() })
	return &ctxConn{Conn: conn, stop: stop}, nil
}

type ctxConn struct {
	net.Conn
	stop func() bool
}

func (c *ctxConn) Close() error {
	c.stop()
	return c.Conn.Close()
}
