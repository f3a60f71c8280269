// Package attachment inspects and stores the PDF documents the agent returns
package attachment

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// ErrNotPDF is returned for data that does not start with the PDF magic bytes
var ErrNotPDF = errors.New("not a PDF document")

var pdfMagic = []byte("%PDF-")

var disableConfigDir sync.Once

// Info describes a PDF attachment
type Info struct {
	Size  int  `json:"size"`
	Pages int  `json:"pages"`
	Valid bool `json:"valid"`
	// Problem holds the validation failure when Valid is false
	Problem string `json:"problem,omitempty"`
}

// IsPDF reports whether data looks like a PDF document
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

func configuration() *pdfmodel.Configuration {
	// pdfcpu would otherwise create a config directory under the user's home
	disableConfigDir.Do(api.DisableConfigDir)
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return conf
}

// Inspect validates data with pdfcpu and counts its pages. A document pdfcpu
// cannot read at all is an error; one that reads but fails validation is
// reported through Info.Valid.
func Inspect(data []byte) (*Info, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}
	conf := configuration()

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, errors.Wrap(err, "read PDF")
	}

	info := &Info{Size: len(data), Pages: pages, Valid: true}
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		info.Valid = false
		info.Problem = err.Error()
	}
	return info, nil
}

// Save writes a PDF attachment to path, creating parent directories
func Save(path string, data []byte) error {
	if !IsPDF(data) {
		return ErrNotPDF
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// InspectFile reads and inspects a PDF file
func InspectFile(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Inspect(data)
}
