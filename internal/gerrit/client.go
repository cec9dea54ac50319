package gerrit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/Afrawles/weekly/internal/report"
)

const (
	DefaultServer = "review.openstack.org"
	DefaultPort   = 29418
)

// Runner executes a command on the review server and returns its stdout.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

type SSHConfig struct {
	User   string
	Server string
	Port   int
	// KeyFile is an optional private key used besides the ssh-agent.
	KeyFile string
	// KnownHosts defaults to ~/.ssh/known_hosts.
	KnownHosts string
	// Insecure skips host key verification.
	Insecure bool
	Timeout  time.Duration
}

// SSHRunner runs commands through Gerrit's SSH daemon.
type SSHRunner struct {
	cfg SSHConfig
	log zerolog.Logger
}

var _ Runner = (*SSHRunner)(nil)

func NewSSHRunner(cfg SSHConfig, log zerolog.Logger) *SSHRunner {
	if cfg.User == "" {
		cfg.User = currentUser()
	}
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SSHRunner{cfg: cfg, log: log}
}

func (r *SSHRunner) Addr() string {
	return net.JoinHostPort(r.cfg.Server, strconv.Itoa(r.cfg.Port))
}

func (r *SSHRunner) Run(ctx context.Context, command string) (string, error) {
	clientCfg, closeAuth, err := r.clientConfig()
	if err != nil {
		return "", report.TransportError("gerrit ssh", err)
	}
	defer closeAuth()

	addr := r.Addr()
	r.log.Debug().Str("addr", addr).Str("user", r.cfg.User).Str("command", command).Msg("running gerrit command")

	dialer := net.Dialer{Timeout: r.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", report.TransportError("gerrit ssh", err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if err != nil {
		conn.Close()
		return "", report.TransportError("gerrit ssh", err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	stop := context.AfterFunc(ctx, func() { client.Close() })
	defer stop()

	session, err := client.NewSession()
	if err != nil {
		return "", report.TransportError("gerrit ssh", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if err := session.Run(command); err != nil {
		if ctx.Err() != nil {
			return "", report.TransportError("gerrit ssh", ctx.Err())
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", report.TransportError("gerrit ssh", err)
	}
	return stdout.String(), nil
}

func (r *SSHRunner) clientConfig() (*ssh.ClientConfig, func(), error) {
	var methods []ssh.AuthMethod
	closeAuth := func() {}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
			closeAuth = func() { conn.Close() }
		} else {
			r.log.Debug().Err(err).Msg("ssh-agent unavailable")
		}
	}

	if r.cfg.KeyFile != "" {
		key, err := os.ReadFile(r.cfg.KeyFile)
		if err != nil {
			closeAuth()
			return nil, nil, fmt.Errorf("read key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			closeAuth()
			return nil, nil, fmt.Errorf("parse key %s: %w", r.cfg.KeyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		return nil, nil, errors.New("no SSH credentials: start an ssh-agent or configure a key file")
	}

	hostKey, err := r.hostKeyCallback()
	if err != nil {
		closeAuth()
		return nil, nil, err
	}

	return &ssh.ClientConfig{
		User:            r.cfg.User,
		Auth:            methods,
		HostKeyCallback: hostKey,
		Timeout:         r.cfg.Timeout,
	}, closeAuth, nil
}

func (r *SSHRunner) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if r.cfg.Insecure {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	path := r.cfg.KnownHosts
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot find home directory: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known hosts: %w", err)
	}
	return cb, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
