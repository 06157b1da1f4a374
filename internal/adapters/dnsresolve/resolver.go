// Package dnsresolve resuelve los registros DNS del enriquecimiento con
// github.com/miekg/dns, consultando directamente los recursivos configurados.
package dnsresolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	apperrors "evidence-lens/internal/platform/errors"
	"evidence-lens/internal/platform/logx"
)

// DefaultServers se usa si no hay resolver configurado y /etc/resolv.conf no
// se puede leer.
var DefaultServers = []string{"1.1.1.1:53", "8.8.8.8:53"}

var resolvConfPath = "/etc/resolv.conf"

// ErrNoRecords indica una consulta exitosa sin respuesta utilizable.
var ErrNoRecords = errors.New("no records")

// Resolver consulta una lista fija de servidores, en orden.
type Resolver struct {
	servers  []string
	timeout  time.Duration
	client   *dns.Client
	fallback *net.Resolver
}

// New construye el resolver. server es "host:port"; vacío usa la configuración
// del sistema.
func New(server string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		servers:  serversFor(server),
		timeout:  timeout,
		client:   &dns.Client{Net: "udp", Timeout: timeout},
		fallback: net.DefaultResolver,
	}
}

func serversFor(server string) []string {
	if server = strings.TrimSpace(server); server != "" {
		return []string{server}
	}
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		return append([]string(nil), DefaultServers...)
	}
	out := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		out = append(out, net.JoinHostPort(s, conf.Port))
	}
	return out
}

// Servers devuelve los servidores en orden de consulta.
func (r *Resolver) Servers() []string {
	return append([]string(nil), r.servers...)
}

// Query resuelve name/qtype y devuelve la sección answer. NXDOMAIN corta la
// búsqueda; cualquier otro fallo prueba con el siguiente servidor.
func (r *Resolver) Query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	qname := fmt.Sprintf("%s/%s", strings.TrimSuffix(dns.Fqdn(name), "."), dns.TypeToString[qtype])
	var lastErr error
	for _, server := range r.servers {
		logx.Tracef("dns query %s via %s", qname, server)
		in, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err == nil && in != nil && in.Truncated {
			tcp := &dns.Client{Net: "tcp", Timeout: r.timeout}
			in, _, err = tcp.ExchangeContext(ctx, msg, server)
		}
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		switch in.Rcode {
		case dns.RcodeSuccess:
			return in.Answer, nil
		case dns.RcodeNameError:
			return nil, apperrors.NewNetworkError("dns query", qname, errors.New("NXDOMAIN"))
		default:
			lastErr = fmt.Errorf("rcode %s from %s", dns.RcodeToString[in.Rcode], server)
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no resolvers configured")
	}
	var netErr net.Error
	if ctx.Err() != nil || (errors.As(lastErr, &netErr) && netErr.Timeout()) {
		return nil, &apperrors.TimeoutError{Operation: "dns query " + qname, Duration: r.timeout}
	}
	return nil, apperrors.NewNetworkError("dns query", qname, lastErr)
}

// LookupA devuelve las direcciones IPv4 de host.
func (r *Resolver) LookupA(ctx context.Context, host string) ([]string, error) {
	answer, err := r.Query(ctx, host, dns.TypeA)
	if err != nil {
		return nil, err
	}
	var ips []string
	for _, rr := range answer {
		if a, ok := rr.(*dns.A); ok {
			ips = appendUnique(ips, a.A.String())
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("A %s: %w", host, ErrNoRecords)
	}
	return ips, nil
}

// LookupHost usa el resolver del sistema y se queda solo con IPv4.
func (r *Resolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.fallback.LookupHost(ctx, host)
	if err != nil {
		return nil, apperrors.NewNetworkError("host lookup", host, err)
	}
	var ips []string
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			ips = appendUnique(ips, ip.String())
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("host %s: %w", host, ErrNoRecords)
	}
	return ips, nil
}

// LookupRecords resuelve MX, NS o TXT y devuelve cada registro como texto:
// MX "pref host", NS el host, TXT los fragmentos concatenados.
func (r *Resolver) LookupRecords(ctx context.Context, rtype, name string) ([]string, error) {
	qtype, ok := dns.StringToType[strings.ToUpper(rtype)]
	if !ok {
		return nil, fmt.Errorf("unsupported record type %q", rtype)
	}
	answer, err := r.Query(ctx, name, qtype)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, rr := range answer {
		switch v := rr.(type) {
		case *dns.MX:
			out = append(out, fmt.Sprintf("%d %s", v.Preference, trimDot(v.Mx)))
		case *dns.NS:
			out = append(out, trimDot(v.Ns))
		case *dns.TXT:
			out = append(out, strings.Join(v.Txt, ""))
		}
	}
	return out, nil
}

// LookupAddr devuelve el primer PTR de ip.
func (r *Resolver) LookupAddr(ctx context.Context, ip string) (string, error) {
	arpa, err := dns.ReverseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("reverse %s: %w", ip, err)
	}
	answer, err := r.Query(ctx, arpa, dns.TypePTR)
	if err != nil {
		return "", err
	}
	for _, rr := range answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return trimDot(ptr.Ptr), nil
		}
	}
	return "", fmt.Errorf("PTR %s: %w", ip, ErrNoRecords)
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
