package paste

import (
	"bytes"
	"compress/flate"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/nao1215/fgscrap/internal/model"
)

// DefaultMaxSize limits both the paste document and the inflated plaintext.
const DefaultMaxSize = 32 * 1024 * 1024 // 32MB

// Decoder fetches and decrypts pastes.
type Decoder struct {
	// client performs the paste request. It is shared with the listing
	// transport so proxy and User-Agent settings apply to both.
	client *http.Client

	// maxSize limits response and plaintext sizes.
	maxSize int64
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxSize sets the maximum paste and plaintext size.
func WithMaxSize(size int64) DecoderOption {
	return func(d *Decoder) {
		d.maxSize = size
	}
}

// NewDecoder creates a Decoder using the given HTTP client.
// A nil client uses http.DefaultClient.
func NewDecoder(client *http.Client, opts ...DecoderOption) *Decoder {
	if client == nil {
		client = http.DefaultClient
	}
	d := &Decoder{
		client:  client,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// pasteDocument is the JSON returned by the paste server.
type pasteDocument struct {
	Status   int             `json:"status"`
	Message  string          `json:"message"`
	ADataRaw json.RawMessage `json:"adata"`
	CT       string          `json:"ct"`
}

// cipherSpec is the first element of adata.
type cipherSpec struct {
	IV          []byte
	Salt        []byte
	Iterations  int
	KeySize     int
	TagSize     int
	Algorithm   string
	Mode        string
	Compression string
}

// plaintext is the decrypted paste content.
type plaintext struct {
	Paste          string          `json:"paste"`
	Attachment     json.RawMessage `json:"attachment"`
	AttachmentName json.RawMessage `json:"attachment_name"`
}

// Decode fetches the paste behind ref, decrypts it, and returns its
// attachment as an Artifact.
func (d *Decoder) Decode(ctx context.Context, ref string) (*model.Artifact, error) {
	r, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}

	doc, err := d.fetch(ctx, r)
	if err != nil {
		return nil, err
	}

	return d.decrypt(r.Key, doc)
}

// fetch requests the paste document.
func (d *Decoder) fetch(ctx context.Context, r *Reference) (*pasteDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.PasteURL(), nil)
	if err != nil {
		return nil, err
	}
	// PrivateBin answers with JSON only when asked like its own web client.
	req.Header.Set("X-Requested-With", "JSONHttpRequest")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrPasteStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read paste: %w", err)
	}

	var doc pasteDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Status != 0 {
		return nil, fmt.Errorf("%w: %s", ErrPasteStatus, doc.Message)
	}

	return &doc, nil
}

// decrypt opens the paste ciphertext and extracts the attachment.
func (d *Decoder) decrypt(key []byte, doc *pasteDocument) (*model.Artifact, error) {
	suite, aad, err := parseAData(doc.ADataRaw)
	if err != nil {
		return nil, err
	}

	if suite.Algorithm != "aes" || suite.Mode != "gcm" || suite.TagSize != 128 {
		return nil, fmt.Errorf("%w: %s-%s tag %d", ErrUnsupportedCipher, suite.Algorithm, suite.Mode, suite.TagSize)
	}
	if suite.KeySize != 128 && suite.KeySize != 192 && suite.KeySize != 256 {
		return nil, fmt.Errorf("%w: key size %d", ErrUnsupportedCipher, suite.KeySize)
	}
	if suite.Iterations <= 0 || len(suite.IV) == 0 {
		return nil, fmt.Errorf("%w: invalid key derivation parameters", ErrMalformed)
	}

	ct, err := base64.StdEncoding.DecodeString(doc.CT)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not base64", ErrMalformed)
	}

	derived := pbkdf2.Key(key, suite.Salt, suite.Iterations, suite.KeySize/8, sha256.New)
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCipher, err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(suite.IV))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCipher, err)
	}

	raw, err := gcm.Open(nil, suite.IV, ct, aad)
	if err != nil {
		return nil, ErrDecrypt
	}

	switch suite.Compression {
	case "zlib":
		// The "zlib" label means raw DEFLATE without a zlib header.
		raw, err = io.ReadAll(io.LimitReader(flate.NewReader(bytes.NewReader(raw)), d.maxSize))
		if err != nil {
			return nil, fmt.Errorf("%w: inflate: %v", ErrMalformed, err)
		}
	case "none", "":
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedCipher, suite.Compression)
	}

	var pt plaintext
	if err := json.Unmarshal(raw, &pt); err != nil {
		return nil, fmt.Errorf("%w: plaintext: %v", ErrMalformed, err)
	}

	attachment, ok := firstString(pt.Attachment)
	if !ok {
		return nil, ErrAttachmentMissing
	}
	name, ok := firstString(pt.AttachmentName)
	if !ok {
		return nil, ErrAttachmentMissing
	}

	data, err := decodeDataURI(attachment)
	if err != nil {
		return nil, err
	}

	return &model.Artifact{Name: name, Data: data}, nil
}

// parseAData reads the cipher parameters and returns them together with the
// additional authenticated data, which is the compact JSON form of adata.
func parseAData(raw json.RawMessage) (*cipherSpec, []byte, error) {
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("%w: missing adata", ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var adata []any
	if err := dec.Decode(&adata); err != nil {
		return nil, nil, fmt.Errorf("%w: adata: %v", ErrMalformed, err)
	}

	// Re-encode rather than reuse the raw bytes: the server may escape
	// characters the encrypting client did not.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(adata); err != nil {
		return nil, nil, fmt.Errorf("%w: adata: %v", ErrMalformed, err)
	}
	aad := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if len(adata) == 0 {
		return nil, nil, fmt.Errorf("%w: empty adata", ErrMalformed)
	}
	params, ok := adata[0].([]any)
	if !ok || len(params) < 8 {
		return nil, nil, fmt.Errorf("%w: cipher parameters", ErrMalformed)
	}

	suite := &cipherSpec{}
	var errs []string
	suite.IV = decodeParamBytes(params[0], "iv", &errs)
	suite.Salt = decodeParamBytes(params[1], "salt", &errs)
	suite.Iterations = paramInt(params[2], "iterations", &errs)
	suite.KeySize = paramInt(params[3], "keysize", &errs)
	suite.TagSize = paramInt(params[4], "tagsize", &errs)
	suite.Algorithm = paramString(params[5], "algorithm", &errs)
	suite.Mode = paramString(params[6], "mode", &errs)
	suite.Compression = paramString(params[7], "compression", &errs)
	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("%w: bad %s", ErrMalformed, strings.Join(errs, ", "))
	}

	return suite, aad, nil
}

func decodeParamBytes(v any, name string, errs *[]string) []byte {
	s, ok := v.(string)
	if !ok {
		*errs = append(*errs, name)
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		*errs = append(*errs, name)
		return nil
	}
	return b
}

func paramInt(v any, name string, errs *[]string) int {
	n, ok := v.(json.Number)
	if !ok {
		*errs = append(*errs, name)
		return 0
	}
	i, err := n.Int64()
	if err != nil {
		*errs = append(*errs, name)
		return 0
	}
	return int(i)
}

func paramString(v any, name string, errs *[]string) string {
	s, ok := v.(string)
	if !ok {
		*errs = append(*errs, name)
	}
	return s
}

// firstString reads a JSON string, or the first element of a JSON string
// array as sent by servers that allow several attachments.
func firstString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0], list[0] != ""
	}
	return "", false
}

// decodeDataURI returns the payload of a base64 data URI such as
// "data:application/x-bittorrent;base64,ZDg6...".
func decodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: not a data URI", ErrUnsupportedAttachment)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: not base64", ErrUnsupportedAttachment)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAttachment, err)
	}
	return data, nil
}
