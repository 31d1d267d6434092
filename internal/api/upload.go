package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/chatmate/internal/errors"
	"github.com/diogo/chatmate/internal/models"
)

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// ValidatePDF checks that filePath exists, is a regular file within
// models.MaxUploadSize and is a PDF by extension or by its leading bytes.
func ValidatePDF(filePath string) error {
	name := filepath.Base(filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		return apierrors.NewUploadError(name, "cannot stat file", err)
	}
	if info.IsDir() {
		return apierrors.NewUploadError(name, "is a directory", nil)
	}
	if info.Size() == 0 {
		return apierrors.NewUploadError(name, "file is empty", nil)
	}
	if info.Size() > models.MaxUploadSize {
		return apierrors.NewUploadError(name,
			fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), models.MaxUploadSize), nil)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return apierrors.NewUploadError(name, "cannot open file", err)
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil
	}
	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return apierrors.NewUploadError(name, "not a PDF document", nil)
	}

	return nil
}

// Summarize uploads a PDF from disk to POST /summarize
func (c *Client) Summarize(ctx context.Context, filePath string) (*models.Summary, error) {
	if err := ValidatePDF(filePath); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, apierrors.NewUploadError(filepath.Base(filePath), "cannot open file", err)
	}
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()

	return c.SummarizeReader(ctx, file, filepath.Base(filePath))
}

// SummarizeReader uploads PDF bytes from r as a single multipart "file" field.
func (c *Client) SummarizeReader(ctx context.Context, r io.Reader, fileName string) (*models.Summary, error) {
	data, err := io.ReadAll(io.LimitReader(r, models.MaxUploadSize+1))
	if err != nil {
		return nil, apierrors.NewUploadError(fileName, "failed to read data", err)
	}
	if int64(len(data)) > models.MaxUploadSize {
		return nil, apierrors.NewUploadError(fileName,
			fmt.Sprintf("data size exceeds maximum %d bytes", models.MaxUploadSize), nil)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, models.UploadField, escapeQuotes(fileName)))
	header.Set("Content-Type", models.PDFContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, apierrors.NewUploadError(fileName, "failed to create form file", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, apierrors.NewUploadError(fileName, "failed to write file data", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apierrors.NewUploadError(fileName, "failed to finalize form", err)
	}

	req, err := fhttp.NewRequest(fhttp.MethodPost, c.baseURL+models.EndpointSummarize, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	respBody, err := c.do(ctx, req, "summarize", models.EndpointSummarize)
	if err != nil {
		return nil, err
	}

	summary, err := parseSummary(respBody)
	if err != nil {
		return nil, err
	}
	summary.FileName = fileName
	return summary, nil
}

// parseSummary reads the "summary" object, keeping the backend's page order.
func parseSummary(body []byte) (*models.Summary, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "")
	}

	raw := gjson.GetBytes(body, PathSummary)
	if !raw.Exists() {
		if msg := gjson.GetBytes(body, PathError); msg.Exists() {
			return nil, apierrors.NewParseError("backend reported: "+msg.String(), PathError)
		}
		return nil, apierrors.NewParseError("missing field", PathSummary)
	}
	if !raw.IsObject() {
		return nil, apierrors.NewParseError("expected object", PathSummary)
	}

	summary := &models.Summary{}
	var bad string
	raw.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			bad = key.String()
			return false
		}
		summary.Pages = append(summary.Pages, models.PageSummary{
			Label: key.String(),
			HTML:  value.Str,
		})
		return true
	})
	if bad != "" {
		return nil, apierrors.NewParseError("expected string page summary", PathSummary+"."+bad)
	}

	return summary, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
