package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// SSH returns a tool that runs a command on a remote host.
// Authentication uses the running ssh-agent and the default key files under ~/.ssh.
func SSH() *Tool {
	return Must(New(
		"ssh",
		"Execute a command on a REMOTE host via SSH. Use this when the user says 'ssh to', provides user@host, or mentions a remote server/IP address.",
		[]Param{
			{Name: "host", Type: String, Description: "The remote host as user@hostname[:port] or hostname (uses current user)"},
			{Name: "command", Type: String, Description: "The command to execute on the remote host"},
		},
		Func(runRemote),
	))
}

func runRemote(ctx context.Context, args Args) (any, error) {
	target, err := args.String("host")
	if err != nil {
		return nil, err
	}
	command, err := args.String("command")
	if err != nil {
		return nil, err
	}

	user, host := parseHost(target)
	if !strings.Contains(host, ":") {
		host += ":22"
	}

	auth, closeAgent, err := authMethods()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth methods: %w", err)
	}
	defer closeAgent()
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against ~/.ssh/known_hosts
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", host, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, host, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", host, err)
	}
	client := ssh.NewClient(c, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	runErr := session.Run(command)
	return describeRun(combineOutput(stdout.String(), stderr.String()), runErr), nil
}

// parseHost extracts user and host from user@host format
func parseHost(hostStr string) (user, host string) {
	if idx := strings.Index(hostStr, "@"); idx != -1 {
		return hostStr[:idx], hostStr[idx+1:]
	}
	currentUser := os.Getenv("USER")
	if currentUser == "" {
		currentUser = "root"
	}
	return currentUser, hostStr
}

// authMethods collects ssh-agent and key file signers. The returned func closes
// the agent connection and must be called once the session is done.
func authMethods() ([]ssh.AuthMethod, func(), error) {
	var methods []ssh.AuthMethod
	closeAgent := func() {}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			closeAgent = func() { conn.Close() }
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	home, _ := os.UserHomeDir()
	for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
		key, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			continue
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		return nil, closeAgent, errors.New("no SSH authentication methods available (tried ssh-agent and key files)")
	}
	return methods, closeAgent, nil
}
