package attachment

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrCheckerUnavailable is returned when pdfsig is not installed
var ErrCheckerUnavailable = errors.New("pdfsig not found; install poppler-utils to check signatures")

// Signature describes one digital signature of an e-invoice PDF
type Signature struct {
	Index         int        `json:"index"`
	Signer        string     `json:"signer,omitempty"`
	Issuer        string     `json:"issuer,omitempty"`
	SigningTime   *time.Time `json:"signing_time,omitempty"`
	HashAlgorithm string     `json:"hash_algorithm,omitempty"`
	Type          string     `json:"type,omitempty"`
	Valid         bool       `json:"valid"`
	Trusted       bool       `json:"trusted"`
	Problem       string     `json:"problem,omitempty"`
}

var (
	sigIndexPattern    = regexp.MustCompile(`Signature #(\d+):`)
	signerCNPattern    = regexp.MustCompile(`Signer Certificate Common Name:\s*(.+)`)
	signerDNPattern    = regexp.MustCompile(`Signer Certificate Full Distinguished Name:\s*(.+)`)
	signingTimePattern = regexp.MustCompile(`Signing Time:\s*(.+)`)
	hashAlgoPattern    = regexp.MustCompile(`Signing Hash Algorithm:\s*(.+)`)
	sigTypePattern     = regexp.MustCompile(`Signature Type:\s*(.+)`)
	sigValidPattern    = regexp.MustCompile(`Signature Validation:\s*(.+)`)
	certTrustedPattern = regexp.MustCompile(`Certificate Validation:\s*(.+)`)
)

var signingTimeLayouts = []string{
	"Jan 02 2006 15:04:05",
	"Jan 2 2006 15:04:05",
	"Mon Jan 2 15:04:05 2006",
	time.RFC3339,
}

// SignatureChecker lists PDF signatures with poppler's pdfsig
type SignatureChecker struct {
	path    string
	timeout time.Duration
}

// NewSignatureChecker locates pdfsig on PATH
func NewSignatureChecker() *SignatureChecker {
	path, _ := exec.LookPath("pdfsig")
	return &SignatureChecker{path: path, timeout: 30 * time.Second}
}

// Available reports whether pdfsig was found
func (c *SignatureChecker) Available() bool {
	return c.path != ""
}

// Check returns the signatures of a PDF. An unsigned PDF yields an empty
// slice.
func (c *SignatureChecker) Check(ctx context.Context, data []byte) ([]Signature, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}
	if !c.Available() {
		return nil, ErrCheckerUnavailable
	}

	// pdfsig only reads files
	tmp, err := os.CreateTemp("", "szamlazz-*.pdf")
	if err != nil {
		return nil, errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, "close temp file")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.path, tmp.Name())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// pdfsig exits non-zero for unsigned files and failed validations
	if err := cmd.Run(); err != nil && stdout.Len() == 0 {
		if strings.Contains(stderr.String(), "does not contain any signatures") {
			return []Signature{}, nil
		}
		return nil, errors.Wrapf(err, "pdfsig: %s", strings.TrimSpace(stderr.String()))
	}
	return parseSignatures(stdout.String()), nil
}

// parseSignatures reads the report pdfsig prints for a file
func parseSignatures(output string) []Signature {
	sigs := []Signature{}
	var cur *Signature

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := sigIndexPattern.FindStringSubmatch(line); m != nil {
			if cur != nil {
				sigs = append(sigs, *cur)
			}
			idx, _ := strconv.Atoi(m[1])
			cur = &Signature{Index: idx}
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		case matchInto(signerCNPattern, line, &cur.Signer):
		case signerDNPattern.MatchString(line):
			var dn string
			matchInto(signerDNPattern, line, &dn)
			cur.Issuer = organization(dn)
		case signingTimePattern.MatchString(line):
			var s string
			matchInto(signingTimePattern, line, &s)
			cur.SigningTime = parseSigningTime(s)
		case matchInto(hashAlgoPattern, line, &cur.HashAlgorithm):
		case matchInto(sigTypePattern, line, &cur.Type):
		case sigValidPattern.MatchString(line):
			var status string
			matchInto(sigValidPattern, line, &status)
			lower := strings.ToLower(status)
			cur.Valid = strings.Contains(lower, "valid") && !strings.Contains(lower, "invalid")
			if !cur.Valid {
				cur.Problem = status
			}
		case certTrustedPattern.MatchString(line):
			var status string
			matchInto(certTrustedPattern, line, &status)
			lower := strings.ToLower(status)
			cur.Trusted = strings.Contains(lower, "trusted") && !strings.Contains(lower, "not trusted")
		}
	}

	if cur != nil {
		sigs = append(sigs, *cur)
	}
	return sigs
}

func matchInto(re *regexp.Regexp, line string, dst *string) bool {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	*dst = strings.TrimSpace(m[1])
	return true
}

func parseSigningTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range signingTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// organization returns the O= component of a distinguished name
func organization(dn string) string {
	for _, part := range strings.Split(dn, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "O=") {
			return part[2:]
		}
	}
	return ""
}
