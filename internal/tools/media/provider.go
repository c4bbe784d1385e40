// Package media exposes image upload tools. Uploads are composite
// operations: push the image to the CDN through the backend media
// service, then attach the stored filename to the catalog entry.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

const (
	uploadFromURLPath = "/api/media/upload-from-url"
	uploadPath        = "/api/media/upload"
	animePath         = "/api/admin/animes"
)

// API is the backend surface this provider calls.
type API interface {
	Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Put(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	UploadMultipart(ctx context.Context, path, field, filename string, data []byte, fields map[string]string, authToken string) (interface{}, error)
}

// Provider implements media upload operations
type Provider struct {
	api API
}

// NewProvider creates a media provider
func NewProvider(api API) *Provider {
	return &Provider{api: api}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "media",
		Name:        "Media Service",
		Description: "Upload cover images and screenshots to the CDN and attach them to catalog entries",
		Category:    types.CategoryMedia,
		Capabilities: []string{
			"upload-url",
			"upload-base64",
			"screenshots",
		},
		Tools: getTools(),
	}
}

func getTools() []types.Tool {
	return []types.Tool{
		{
			ID:   "media.uploadCover",
			Name: "Upload Cover Image",
			Description: "Upload a cover image for an anime from a URL: downloads the image, stores it on the CDN " +
				"in the anime images folder and sets it as the anime's cover. Use when the admin provides an image URL.",
			Parameters: []types.Parameter{
				schema.IDField("animeId", "Anime ID to set cover image for"),
				{Name: "imageUrl", Type: "string", Description: "URL of the image to download and upload", Required: true},
			},
			Returns: "object",
		},
		{
			ID:   "media.uploadScreenshot",
			Name: "Upload Screenshot",
			Description: "Upload a screenshot for an anime from a URL. Screenshots are stored in the screenshots folder " +
				"separately from cover images. Use this to add visual scenes from the anime.",
			Parameters: []types.Parameter{
				schema.IDField("animeId", "Anime ID to add screenshot for"),
				{Name: "imageUrl", Type: "string", Description: "URL of the screenshot to download and upload", Required: true},
			},
			Returns: "object",
		},
		{
			ID:   "media.uploadBase64",
			Name: "Upload Inline Image",
			Description: "Upload an image provided inline as base64 (e.g. pasted into the chat) and set it as an anime's cover. " +
				"Accepts raw base64 or a data URL.",
			Parameters: []types.Parameter{
				schema.IDField("animeId", "Anime ID to set cover image for"),
				{Name: "data", Type: "string", Description: "Base64-encoded image content", Required: true},
				{Name: "filename", Type: "string", Description: "Original filename", Default: "upload.png"},
			},
			Returns: "object",
		},
	}
}

// Execute runs a media operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	token := ""
	if reqCtx != nil {
		token = reqCtx.AuthToken
	}

	switch toolID {
	case "media.uploadCover":
		return p.uploadCover(ctx, params, token)
	case "media.uploadScreenshot":
		return p.uploadScreenshot(ctx, params, token)
	case "media.uploadBase64":
		return p.uploadBase64(ctx, params, token)
	default:
		return tools.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) uploadCover(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	animeID, _ := tools.Int(params, "animeId")
	imageURL, _ := tools.String(params, "imageUrl")

	upload, err := p.api.Post(ctx, uploadFromURLPath, map[string]interface{}{
		"imageUrl":         imageURL,
		"type":             "anime",
		"relatedId":        animeID,
		"saveAsScreenshot": false,
	}, token)
	if err != nil {
		return tools.Failure(err.Error())
	}

	filename, url := uploadInfo(upload)
	if filename == "" {
		return tools.Failure("upload succeeded but no filename returned")
	}

	return p.attachCover(ctx, animeID, filename, url, token)
}

func (p *Provider) uploadScreenshot(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	animeID, _ := tools.Int(params, "animeId")
	imageURL, _ := tools.String(params, "imageUrl")

	upload, err := p.api.Post(ctx, uploadFromURLPath, map[string]interface{}{
		"imageUrl":         imageURL,
		"type":             "anime",
		"relatedId":        animeID,
		"saveAsScreenshot": true,
	}, token)
	if err != nil {
		return tools.Failure(err.Error())
	}

	filename, url := uploadInfo(upload)
	if filename == "" {
		return tools.Failure("upload succeeded but no filename returned")
	}

	return tools.Success(map[string]interface{}{
		"screenshotId": tools.IDOf(upload),
		"animeId":      animeID,
		"filename":     filename,
		"url":          url,
	}, fmt.Sprintf("Screenshot uploaded for anime ID %d", animeID))
}

func (p *Provider) uploadBase64(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	animeID, _ := tools.Int(params, "animeId")
	encoded, _ := tools.String(params, "data")
	filename, _ := tools.String(params, "filename")
	if filename == "" {
		filename = "upload.png"
	}

	raw, err := decodeBase64(encoded)
	if err != nil {
		return tools.Failure(fmt.Sprintf("invalid base64 image data: %v", err))
	}

	upload, err := p.api.UploadMultipart(ctx, uploadPath, "file", filename, raw, map[string]string{
		"type":      "anime",
		"relatedId": fmt.Sprint(animeID),
	}, token)
	if err != nil {
		return tools.Failure(err.Error())
	}

	stored, url := uploadInfo(upload)
	if stored == "" {
		return tools.Failure("upload succeeded but no filename returned")
	}

	return p.attachCover(ctx, animeID, stored, url, token)
}

// attachCover writes the stored filename onto the anime record. When
// the attach step fails, the upload already happened; the result keeps
// the filename so the admin can attach it by hand.
func (p *Provider) attachCover(ctx context.Context, animeID int, filename, url, token string) (*types.Result, error) {
	_, err := p.api.Put(ctx, fmt.Sprintf("%s/%d", animePath, animeID),
		map[string]interface{}{"image": filename}, token)
	if err != nil {
		msg := fmt.Sprintf("image uploaded as %q but attaching it to anime ID %d failed: %v", filename, animeID, err)
		return &types.Result{
			Success: false,
			Error:   &msg,
			Data: map[string]interface{}{
				"animeId":  animeID,
				"filename": filename,
				"url":      url,
			},
		}, nil
	}

	return tools.Success(map[string]interface{}{
		"animeId":  animeID,
		"filename": filename,
		"url":      url,
	}, fmt.Sprintf("Cover image uploaded and set for anime ID %d", animeID))
}

func uploadInfo(upload interface{}) (filename, url string) {
	m, ok := upload.(map[string]interface{})
	if !ok {
		return "", ""
	}
	filename, _ = m["filename"].(string)
	url, _ = m["url"].(string)
	return filename, url
}

// decodeBase64 accepts raw base64 or a data URL.
func decodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}
