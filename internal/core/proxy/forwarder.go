package proxy

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"parts-checkout/internal/core/logger"

	"github.com/elazarl/goproxy"
	"go.uber.org/zap"
)

const upstreamDialTimeout = 30 * time.Second

// ForwardingProxy listens on loopback without authentication and tunnels every
// connection through an authenticated upstream proxy. Only hosts in the allow
// list (and their subdomains) are forwarded; an empty list allows everything.
type ForwardingProxy struct {
	upstream  Settings
	allowed   []string
	authValue string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener

	logger *zap.Logger
}

func NewForwardingProxy(upstream Settings, allowedHosts ...string) (*ForwardingProxy, error) {
	if !upstream.HasProxy() {
		return nil, errors.New("upstream proxy is not configured")
	}

	fp := &ForwardingProxy{
		upstream: upstream,
		logger:   logger.Named("proxy"),
	}
	for _, h := range allowedHosts {
		fp.allowed = append(fp.allowed, strings.ToLower(strings.TrimPrefix(h, ".")))
	}
	if upstream.Username != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(upstream.Username + ":" + upstream.Password))
		fp.authValue = "Basic " + cred
	}
	return fp, nil
}

func (fp *ForwardingProxy) isAllowed(host string) bool {
	if len(fp.allowed) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, a := range fp.allowed {
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

// dial opens a CONNECT tunnel to addr through the upstream proxy.
func (fp *ForwardingProxy) dial(ctx context.Context, addr string) (net.Conn, error) {
	upstreamAddr := net.JoinHostPort(fp.upstream.Host, fp.upstream.Port)

	d := net.Dialer{Timeout: upstreamDialTimeout}
	conn, err := d.DialContext(ctx, "tcp", upstreamAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to upstream proxy %s: %w", upstreamAddr, err)
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Host: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if fp.authValue != "" {
		req.Header.Set("Proxy-Authorization", fp.authValue)
	}
	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send CONNECT request: %w", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read CONNECT response: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		conn.Close()
		fp.logger.Warn("Upstream proxy rejected CONNECT",
			zap.Int("status", resp.StatusCode),
			zap.String("target", addr),
		)
		return nil, fmt.Errorf("upstream proxy CONNECT failed with status %d", resp.StatusCode)
	}
	return conn, nil
}

// Start binds a loopback port and serves until Stop is called or ctx is done.
// It returns the address Chromium should use, e.g. "http://127.0.0.1:41234".
func (fp *ForwardingProxy) Start(ctx context.Context) (string, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if fp.server != nil {
		return fp.addrLocked(), nil
	}

	gp := goproxy.NewProxyHttpServer()
	gp.ConnectDial = func(network, addr string) (net.Conn, error) {
		return fp.dial(ctx, addr)
	}
	gp.Tr = &http.Transport{
		DialContext: func(dctx context.Context, network, addr string) (net.Conn, error) {
			return fp.dial(dctx, addr)
		},
	}

	blocked := goproxy.ReqConditionFunc(func(r *http.Request, _ *goproxy.ProxyCtx) bool {
		return !fp.isAllowed(r.URL.Hostname())
	})
	gp.OnRequest(blocked).HandleConnect(goproxy.AlwaysReject)
	gp.OnRequest(blocked).DoFunc(func(r *http.Request, _ *goproxy.ProxyCtx) (*http.Request, *http.Response) {
		fp.logger.Debug("Blocked request to host outside allow list", zap.String("host", r.URL.Host))
		return r, goproxy.NewResponse(r, goproxy.ContentTypeText, http.StatusForbidden, "host not allowed")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to bind local proxy: %w", err)
	}
	fp.listener = ln
	fp.server = &http.Server{Handler: gp, ReadHeaderTimeout: 10 * time.Second}

	srv := fp.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fp.logger.Error("Local proxy server error", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		_ = fp.Stop()
	}()

	fp.logger.Debug("Local proxy forwarder started",
		zap.String("local_addr", fp.addrLocked()),
		zap.String("upstream", fp.upstream.Addr()),
	)
	return fp.addrLocked(), nil
}

// Stop shuts the forwarder down. Calling it more than once is safe.
func (fp *ForwardingProxy) Stop() error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if fp.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := fp.server.Shutdown(ctx)
	if err != nil {
		fp.listener.Close()
	}
	fp.server = nil
	return err
}

// LocalAddr returns the forwarder address or "" when it is not running.
func (fp *ForwardingProxy) LocalAddr() string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if fp.server == nil {
		return ""
	}
	return fp.addrLocked()
}

func (fp *ForwardingProxy) addrLocked() string {
	return "http://" + fp.listener.Addr().String()
}
