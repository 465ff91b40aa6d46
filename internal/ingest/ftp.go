package ingest

import (
	"context"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPSource retrieves a list file from an FTP drop, an additional inbound
// channel alongside direct CSV/XLSX upload: some contributors push their
// list to an anonymous FTP drop instead.
type FTPSource struct {
	Timeout time.Duration
}

// NewFTPSource returns an FTPSource with a sane default dial timeout.
func NewFTPSource(timeout time.Duration) *FTPSource {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &FTPSource{Timeout: timeout}
}

// Fetch connects anonymously, retrieves rawURL, and returns its full
// contents. The caller passes the bytes to ReadCSV or ReadXLSX based on
// the file extension.
func (s *FTPSource) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	host, path, err := parseFTPURL(rawURL)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("ingest: ftp connecting", zap.String("host", host), zap.String("path", path))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(s.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "ingest: ftp dial")
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return nil, eris.Wrap(err, "ingest: ftp login")
	}

	resp, err := conn.Retr(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: ftp retrieve")
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: ftp read")
	}
	return data, nil
}

func parseFTPURL(rawURL string) (host string, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrap(err, "ingest: parse ftp url")
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("ingest: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	path = u.Path
	if path == "" {
		return "", "", eris.New("ingest: empty path in ftp url")
	}

	return host, path, nil
}
