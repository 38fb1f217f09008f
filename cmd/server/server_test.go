package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nickyhof/FlatDB"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/ps"
)

func seedStorage(t *testing.T, storage ps.Storage) {
	t.Helper()
	items := core.Table{Name: "items", Columns: []string{"id", "value"}}
	items.Append(core.RowOf(items.Columns, []string{"1", "one"}))
	items.Append(core.RowOf(items.Columns, []string{"2", "two"}))
	if err := storage.SaveTable(context.Background(), items); err != nil {
		t.Fatalf("Failed to seed storage: %v", err)
	}
}

func setupTestServer(t *testing.T) (*Server, func()) {
	storage := ps.NewMemoryStorage(ps.CSV)
	seedStorage(t, storage)
	instance := FlatDB.Open(storage)
	identity := core.Identity{Name: "test", Email: "test@test.com"}

	server := NewServer(instance, identity)
	if err := server.Start(":0"); err != nil { // :0 picks a free port
		t.Fatalf("Failed to start server: %v", err)
	}

	return server, func() {
		server.Stop()
	}
}

// session is one client connection sending a line and reading a response.
type session struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dial(t *testing.T, addr string) *session {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	return &session{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (s *session) send(line string) Response {
	s.t.Helper()
	if _, err := s.conn.Write([]byte(line + "\n")); err != nil {
		s.t.Fatalf("Failed to send %q: %v", line, err)
	}

	reply, err := s.reader.ReadString('\n')
	if err != nil {
		s.t.Fatalf("Failed to read response for %q: %v", line, err)
	}

	var resp Response
	if err := json.Unmarshal([]byte(reply), &resp); err != nil {
		s.t.Fatalf("Failed to parse response for %q: %v", line, err)
	}
	return resp
}

func (s *session) close() {
	s.conn.Close()
}

func sendQuery(t *testing.T, addr, query string) Response {
	s := dial(t, addr)
	defer s.close()
	return s.send(query)
}

func TestServerStartStop(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	if server.Addr() == "" {
		t.Error("Expected non-empty address")
	}
	if server.TLSEnabled() {
		t.Error("Expected TLS to be disabled")
	}
}

func TestServerInsert(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp := sendQuery(t, server.Addr(), "INSERT INTO items (id, value) VALUES ('3', 'three')")
	if !resp.Success {
		t.Fatalf("Failed to insert: %s", resp.Error)
	}
	if resp.Type != "commit" {
		t.Errorf("Expected commit type, got: %s", resp.Type)
	}

	var cr CommitResponse
	if err := json.Unmarshal(resp.Result, &cr); err != nil {
		t.Fatalf("Failed to parse commit result: %v", err)
	}
	if cr.RecordsWritten != 1 {
		t.Errorf("Expected 1 record written, got: %d", cr.RecordsWritten)
	}
}

func TestServerSelect(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp := sendQuery(t, server.Addr(), "SELECT * FROM items")
	if !resp.Success {
		t.Fatalf("Failed to select: %s", resp.Error)
	}
	if resp.Type != "query" {
		t.Errorf("Expected query type, got: %s", resp.Type)
	}

	var qr QueryResponse
	if err := json.Unmarshal(resp.Result, &qr); err != nil {
		t.Fatalf("Failed to parse query result: %v", err)
	}
	if strings.Join(qr.Columns, ",") != "id,value" {
		t.Errorf("Expected columns id,value, got: %v", qr.Columns)
	}
	if len(qr.Data) != 2 {
		t.Errorf("Expected 2 rows, got: %d", len(qr.Data))
	}
	if qr.RecordsRead != 2 {
		t.Errorf("Expected 2 records read, got: %d", qr.RecordsRead)
	}
}

func TestServerSelectEmptyResult(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp := sendQuery(t, server.Addr(), "SELECT * FROM items WHERE id = '9'")
	if !resp.Success {
		t.Fatalf("Failed to select: %s", resp.Error)
	}
	if !strings.Contains(string(resp.Result), `"data":[]`) {
		t.Errorf("Expected empty data array, got: %s", resp.Result)
	}
}

func TestServerJSONRequest(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp := sendQuery(t, server.Addr(), `{"query": "SELECT value FROM items WHERE id = '2'"}`)
	if !resp.Success {
		t.Fatalf("Failed to select: %s", resp.Error)
	}

	var qr QueryResponse
	if err := json.Unmarshal(resp.Result, &qr); err != nil {
		t.Fatalf("Failed to parse query result: %v", err)
	}
	if len(qr.Data) != 1 || qr.Data[0][0] != "two" {
		t.Errorf("Expected [[two]], got: %v", qr.Data)
	}

	resp = sendQuery(t, server.Addr(), `{"query": `)
	if resp.Success || !strings.Contains(resp.Error, "invalid request") {
		t.Errorf("Expected invalid request error, got: %+v", resp)
	}
}

func TestServerError(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp := sendQuery(t, server.Addr(), "SELECT * FROM nonexistent")
	if resp.Success {
		t.Error("Expected failure for non-existent table")
	}
	if !strings.Contains(resp.Error, "table not found") {
		t.Errorf("Expected table not found, got: %s", resp.Error)
	}
}

func TestServerSyntaxError(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp := sendQuery(t, server.Addr(), "SELEKT * FROM items")
	if resp.Success {
		t.Error("Expected failure for syntax error")
	}
	if !strings.Contains(resp.Error, "query parsing error") {
		t.Errorf("Expected parse error, got: %s", resp.Error)
	}
}

func TestServerPersistentConnection(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	s := dial(t, server.Addr())
	defer s.close()

	queries := []string{
		"INSERT INTO items (id, value) VALUES ('3', 'three')",
		"DELETE FROM items WHERE id = '1'",
		"SELECT * FROM items ORDER BY id DESC",
	}

	var last Response
	for _, query := range queries {
		last = s.send(query)
		if !last.Success {
			t.Errorf("Query '%s' failed: %s", query, last.Error)
		}
	}

	var qr QueryResponse
	if err := json.Unmarshal(last.Result, &qr); err != nil {
		t.Fatalf("Failed to parse query result: %v", err)
	}
	if len(qr.Data) != 2 || qr.Data[0][0] != "3" || qr.Data[1][0] != "2" {
		t.Errorf("Expected ids 3,2, got: %v", qr.Data)
	}
}

func TestServerQuitClosesConnection(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	s := dial(t, server.Addr())
	defer s.close()

	if _, err := s.conn.Write([]byte("quit\n")); err != nil {
		t.Fatalf("Failed to send quit: %v", err)
	}
	s.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := s.reader.ReadString('\n'); err == nil {
		t.Error("Expected connection to be closed after quit")
	}
}

// setupAuthTestServer creates a server with authentication enabled
func setupAuthTestServer(t *testing.T, secret string, storage ps.Storage) (*Server, func()) {
	seedStorage(t, storage)
	instance := FlatDB.Open(storage)

	authConfig := &AuthConfig{
		Enabled:   true,
		JWTSecret: secret,
	}

	server := NewServerWithAuth(instance, authConfig)
	if err := server.Start(":0"); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	return server, func() {
		server.Stop()
	}
}

// createTestJWT creates a JWT token for testing
func createTestJWT(t *testing.T, secret, name, email string, ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name":  name,
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to create test JWT: %v", err)
	}
	return tokenString
}

func TestAuthRequired(t *testing.T) {
	server, cleanup := setupAuthTestServer(t, "test-secret", ps.NewMemoryStorage(ps.CSV))
	defer cleanup()

	resp := sendQuery(t, server.Addr(), "SELECT * FROM items")
	if resp.Success {
		t.Error("Expected failure when not authenticated")
	}
	if !strings.Contains(resp.Error, "authentication required") {
		t.Errorf("Expected 'authentication required' error, got: %s", resp.Error)
	}
}

func TestAuthWithValidJWT(t *testing.T) {
	secret := "test-secret"
	server, cleanup := setupAuthTestServer(t, secret, ps.NewMemoryStorage(ps.CSV))
	defer cleanup()

	s := dial(t, server.Addr())
	defer s.close()

	resp := s.send("AUTH JWT " + createTestJWT(t, secret, "Test User", "test@example.com", time.Hour))
	if !resp.Success {
		t.Fatalf("Auth failed: %s", resp.Error)
	}
	if resp.Type != "auth" {
		t.Errorf("Expected 'auth' type, got: %s", resp.Type)
	}

	var authResp AuthResponse
	if err := json.Unmarshal(resp.Result, &authResp); err != nil {
		t.Fatalf("Failed to parse auth result: %v", err)
	}
	if !authResp.Authenticated {
		t.Error("Expected authenticated to be true")
	}
	if authResp.Identity != "Test User <test@example.com>" {
		t.Errorf("Expected identity 'Test User <test@example.com>', got: %s", authResp.Identity)
	}
	if authResp.ExpiresIn <= 0 || authResp.ExpiresIn > 3600 {
		t.Errorf("Expected expiry within the hour, got: %d", authResp.ExpiresIn)
	}

	resp = s.send("SELECT * FROM items")
	if !resp.Success {
		t.Errorf("Query after auth failed: %s", resp.Error)
	}
}

func TestAuthWithInvalidJWT(t *testing.T) {
	server, cleanup := setupAuthTestServer(t, "test-secret", ps.NewMemoryStorage(ps.CSV))
	defer cleanup()

	tests := []struct {
		name string
		line string
	}{
		{"wrong secret", "AUTH JWT " + createTestJWT(t, "wrong-secret", "Test User", "test@example.com", time.Hour)},
		{"expired", "AUTH JWT " + createTestJWT(t, "test-secret", "Test User", "test@example.com", -time.Hour)},
		{"missing token", "AUTH JWT"},
		{"unsupported type", "AUTH BASIC dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dial(t, server.Addr())
			defer s.close()

			resp := s.send(tt.line)
			if resp.Success {
				t.Error("Expected auth to fail")
			}
			if resp.Error == "" {
				t.Error("Expected error message")
			}

			resp = s.send("SELECT * FROM items")
			if resp.Success {
				t.Error("Expected query to fail after failed auth")
			}
		})
	}
}

func TestParseAuthCommand(t *testing.T) {
	tests := []struct {
		line     string
		authType string
		token    string
		wantErr  bool
	}{
		{"AUTH JWT abc.def.ghi", "JWT", "abc.def.ghi", false},
		{"auth jwt abc", "JWT", "abc", false},
		{"AUTH JWT", "", "", true},
		{"AUTH KERBEROS abc", "", "", true},
		{"SELECT * FROM items", "", "", true},
	}

	for _, tt := range tests {
		authType, token, err := parseAuthCommand(tt.line)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAuthCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if authType != tt.authType || token != tt.token {
			t.Errorf("parseAuthCommand(%q) = %q, %q, expected %q, %q", tt.line, authType, token, tt.authType, tt.token)
		}
	}
}

// TestIdentityInCommitsUnauthenticated verifies the configured identity is
// recorded when auth is disabled
func TestIdentityInCommitsUnauthenticated(t *testing.T) {
	storage, err := ps.NewMemoryGitStorage(ps.CSV)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	seedStorage(t, storage)

	server := NewServer(FlatDB.Open(storage), core.Identity{Name: "Default User", Email: "default@test.com"})
	if err := server.Start(":0"); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	resp := sendQuery(t, server.Addr(), "INSERT INTO items (id, value) VALUES ('3', 'three')")
	if !resp.Success {
		t.Fatalf("Query failed: %s", resp.Error)
	}

	txn := storage.LatestTransaction()
	if txn.Author != "Default User <default@test.com>" {
		t.Errorf("Expected commit author 'Default User <default@test.com>', got '%s'", txn.Author)
	}

	var cr CommitResponse
	if err := json.Unmarshal(resp.Result, &cr); err != nil {
		t.Fatalf("Failed to parse commit result: %v", err)
	}
	if cr.Transaction != txn.Id {
		t.Errorf("Expected transaction %s in response, got %s", txn.Id, cr.Transaction)
	}
}

// TestIdentityInCommitsAuthenticated verifies the JWT identity is recorded
func TestIdentityInCommitsAuthenticated(t *testing.T) {
	secret := "test-secret-for-identity"

	storage, err := ps.NewMemoryGitStorage(ps.CSV)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	server, cleanup := setupAuthTestServer(t, secret, storage)
	defer cleanup()

	s := dial(t, server.Addr())
	defer s.close()

	if resp := s.send("AUTH JWT " + createTestJWT(t, secret, "JWT Test User", "jwtuser@example.com", time.Hour)); !resp.Success {
		t.Fatalf("Auth failed: %s", resp.Error)
	}
	if resp := s.send("DELETE FROM items WHERE id = '1'"); !resp.Success {
		t.Fatalf("Query failed: %s", resp.Error)
	}

	txn := storage.LatestTransaction()
	if txn.Author != "JWT Test User <jwtuser@example.com>" {
		t.Errorf("Expected commit author 'JWT Test User <jwtuser@example.com>', got '%s'", txn.Author)
	}
}

// === TLS Tests ===

// setupTLSTestServer creates a server with TLS enabled using test certificates
func setupTLSTestServer(t *testing.T) (*Server, string, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	certFile := tmpDir + "/cert.pem"
	keyFile := tmpDir + "/key.pem"
	generateTestCertificate(t, certFile, keyFile)

	storage := ps.NewMemoryStorage(ps.CSV)
	seedStorage(t, storage)
	server := NewServer(FlatDB.Open(storage), core.Identity{Name: "test", Email: "test@test.com"})
	if err := server.StartTLS(":0", certFile, keyFile); err != nil {
		t.Fatalf("Failed to start TLS server: %v", err)
	}

	return server, certFile, func() {
		server.Stop()
	}
}

// generateTestCertificate creates a self-signed certificate for testing
func generateTestCertificate(t *testing.T, certFile, keyFile string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate private key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName: "localhost",
		},
		NotBefore: time.Now(),
		NotAfter:  time.Now().Add(time.Hour),
		KeyUsage:  x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageServerAuth,
		},
		IPAddresses: []net.IP{net.ParseIP("127.0.0.1"), net.IPv6loopback},
		DNSNames:    []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("Failed to create certificate: %v", err)
	}

	certOut, err := os.Create(certFile)
	if err != nil {
		t.Fatalf("Failed to create cert file: %v", err)
	}
	pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	certOut.Close()

	keyOut, err := os.Create(keyFile)
	if err != nil {
		t.Fatalf("Failed to create key file: %v", err)
	}
	pem.Encode(keyOut, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	keyOut.Close()
}

func TestTLSServerStartStop(t *testing.T) {
	server, _, cleanup := setupTLSTestServer(t)
	defer cleanup()

	if server.Addr() == "" {
		t.Error("Expected non-empty address")
	}
	if !server.TLSEnabled() {
		t.Error("Expected TLS to be enabled")
	}
}

func TestTLSServerConnection(t *testing.T) {
	server, certFile, cleanup := setupTLSTestServer(t)
	defer cleanup()

	certPool := x509.NewCertPool()
	certData, err := os.ReadFile(certFile)
	if err != nil {
		t.Fatalf("Failed to read cert: %v", err)
	}
	certPool.AppendCertsFromPEM(certData)

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: 2 * time.Second}, "tcp", server.Addr(), &tls.Config{
		RootCAs:    certPool,
		ServerName: "localhost",
	})
	if err != nil {
		t.Fatalf("Failed to connect with TLS: %v", err)
	}
	s := &session{t: t, conn: conn, reader: bufio.NewReader(conn)}
	defer s.close()

	resp := s.send("INSERT INTO items (id, value) VALUES ('3', 'three')")
	if !resp.Success {
		t.Errorf("Query failed: %s", resp.Error)
	}
	if resp.Type != "commit" {
		t.Errorf("Expected commit type, got: %s", resp.Type)
	}
}

func TestTLSServerInvalidCert(t *testing.T) {
	server, _, cleanup := setupTLSTestServer(t)
	defer cleanup()

	// The system roots do not include the self-signed test certificate
	_, err := tls.DialWithDialer(&net.Dialer{Timeout: 2 * time.Second}, "tcp", server.Addr(), &tls.Config{
		ServerName: "localhost",
	})
	if err == nil {
		t.Error("Expected TLS connection to fail with invalid certificate")
	}
}

func TestTLSServerMissingCertificate(t *testing.T) {
	server := NewServer(FlatDB.Open(ps.NewMemoryStorage(ps.CSV)), DefaultIdentity)
	if err := server.StartTLS(":0", "missing-cert.pem", "missing-key.pem"); err == nil {
		server.Stop()
		t.Error("Expected error for missing certificate files")
	}
}
