package dida

import (
	"context"
	"crypto/tls"
	"io/ioutil"
	"mime"
	"net/http"

	"github.com/pkg/errors"
)

// ExportDownload is one workbook retrieved from the Dida API server.
type ExportDownload struct {
	Filename  string
	MediaType string
	Content   []byte
}

// ExportsClient is the specialized client for downloading xlsx workbooks
// from the Dida API server.
type ExportsClient interface {
	// Tasks downloads the tasks workbook.
	Tasks(ctx context.Context) (ExportDownload, error)
	// Focus downloads the focus-records workbook.
	Focus(ctx context.Context) (ExportDownload, error)
}

type exportsClient struct {
	*baseClient
}

// NewExportsClient returns a specialized client for downloading workbooks.
func NewExportsClient(apiAddress string, allowInsecure bool) ExportsClient {
	return &exportsClient{
		baseClient: &baseClient{
			apiAddress: apiAddress,
			httpClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure, // nolint: gosec
					},
				},
			},
		},
	}
}

func (e *exportsClient) Tasks(_ context.Context) (ExportDownload, error) {
	return e.download("v2/exports/tasks")
}

func (e *exportsClient) Focus(_ context.Context) (ExportDownload, error) {
	return e.download("v2/exports/focus")
}

func (e *exportsClient) download(path string) (ExportDownload, error) {
	download := ExportDownload{}
	resp, err := e.submitRequest(
		outboundRequest{
			method:      http.MethodGet,
			path:        path,
			successCode: http.StatusOK,
		},
	)
	if err != nil {
		return download, err
	}
	defer resp.Body.Close() // nolint: errcheck
	if download.Content, err = ioutil.ReadAll(resp.Body); err != nil {
		return download, errors.Wrap(err, "error reading workbook content")
	}
	download.MediaType = resp.Header.Get("Content-Type")
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" { // nolint: lll
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			download.Filename = params["filename"]
		}
	}
	return download, nil
}
