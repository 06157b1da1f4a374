// Package rdap consulta bloques de red IP vía RDAP (RFC 9083).
package rdap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"evidence-lens/internal/core/analysis"
	apperrors "evidence-lens/internal/platform/errors"
)

// ErrNoData indica que el servicio no tiene registro para la IP.
var ErrNoData = errors.New("rdap: no data")

type ipNetwork struct {
	Handle       string       `json:"handle"`
	Name         string       `json:"name"`
	StartAddress string       `json:"startAddress"`
	EndAddress   string       `json:"endAddress"`
	Country      string       `json:"country"`
	CIDRs        []cidr0      `json:"cidr0_cidrs"`
	Entities     []rdapEntity `json:"entities"`
}

type cidr0 struct {
	V4Prefix string `json:"v4prefix"`
	V6Prefix string `json:"v6prefix"`
	Length   int    `json:"length"`
}

type rdapEntity struct {
	Roles      []string     `json:"roles"`
	Handle     string       `json:"handle"`
	VCardArray []any        `json:"vcardArray"`
	Entities   []rdapEntity `json:"entities"`
}

// Client es seguro para uso concurrente.
type Client struct {
	baseURL string
	http    *http.Client
}

// New crea un cliente contra baseURL (p.ej. https://rdap.org). El cliente
// HTTP sigue las redirecciones hacia el RIR correspondiente.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LookupIP devuelve el bloque de red que contiene ip.
func (c *Client) LookupIP(ctx context.Context, ip string) (analysis.Network, error) {
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil {
		return analysis.Network{}, fmt.Errorf("rdap: invalid IP %q", ip)
	}

	endpoint, err := c.buildURL(addr.String())
	if err != nil {
		return analysis.Network{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return analysis.Network{}, err
	}
	req.Header.Set("Accept", "application/rdap+json, application/json")
	req.Header.Set("User-Agent", "evidence-lens/rdap")

	resp, err := c.http.Do(req)
	if err != nil {
		return analysis.Network{}, apperrors.NewNetworkError("rdap", addr.String(), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// proceed
	case http.StatusNotFound:
		return analysis.Network{}, apperrors.NewNetworkError("rdap", addr.String(), ErrNoData)
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return analysis.Network{}, apperrors.NewNetworkError("rdap", addr.String(),
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload ipNetwork
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return analysis.Network{}, apperrors.NewNetworkError("rdap decode", addr.String(), err)
	}
	return summarize(&payload), nil
}

func (c *Client) buildURL(ip string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("rdap: invalid base URL: %w", err)
	}
	ref := &url.URL{Path: path.Join(base.Path, "ip", ip)}
	return base.ResolveReference(ref).String(), nil
}

func summarize(n *ipNetwork) analysis.Network {
	out := analysis.Network{
		Name:         strings.TrimSpace(n.Name),
		Handle:       strings.TrimSpace(n.Handle),
		StartAddress: strings.TrimSpace(n.StartAddress),
		EndAddress:   strings.TrimSpace(n.EndAddress),
		Country:      strings.ToUpper(strings.TrimSpace(n.Country)),
	}

	var cidrs []string
	for _, c := range n.CIDRs {
		prefix := c.V4Prefix
		if prefix == "" {
			prefix = c.V6Prefix
		}
		if prefix == "" {
			continue
		}
		cidrs = append(cidrs, prefix+"/"+strconv.Itoa(c.Length))
	}
	out.CIDR = strings.Join(cidrs, ", ")

	if out.Name == "" {
		out.Name = registrantName(n.Entities)
	}
	return out
}

func registrantName(entities []rdapEntity) string {
	for _, e := range entities {
		if hasRole(e.Roles, "registrant") {
			if name := entityName(e); name != "" {
				return name
			}
		}
		if name := registrantName(e.Entities); name != "" {
			return name
		}
	}
	return ""
}

// entityName lee el "fn" del vCard y, si no hay, usa el handle.
func entityName(e rdapEntity) string {
	if len(e.VCardArray) < 2 {
		return strings.TrimSpace(e.Handle)
	}
	entries, ok := e.VCardArray[1].([]any)
	if !ok {
		return strings.TrimSpace(e.Handle)
	}
	for _, entry := range entries {
		parts, ok := entry.([]any)
		if !ok || len(parts) < 4 {
			continue
		}
		if name, _ := parts[0].(string); name != "fn" {
			continue
		}
		if text, ok := parts[len(parts)-1].(string); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return strings.TrimSpace(e.Handle)
}

func hasRole(roles []string, want string) bool {
	for _, role := range roles {
		if strings.EqualFold(strings.TrimSpace(role), want) {
			return true
		}
	}
	return false
}
