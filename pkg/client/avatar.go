package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const maxAvatarBytes = 5 << 20

// Pre-validation failures never reach the network.
var (
	ErrAvatarTooLarge = errors.New("avatar exceeds the 5 MB limit")
	ErrAvatarType     = errors.New("avatar must be a jpeg, png or gif image")
)

var allowedAvatarTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// UploadAvatar stores a new profile photo. The content is sniffed and sized
// locally first; oversized or non-image input fails without a request.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (AvatarResult, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxAvatarBytes+1))
	if err != nil {
		return AvatarResult{}, fmt.Errorf("read avatar: %w", err)
	}
	if n > maxAvatarBytes {
		return AvatarResult{}, ErrAvatarTooLarge
	}

	mime := http.DetectContentType(buf.Bytes())
	if _, ok := allowedAvatarTypes[mime]; !ok {
		return AvatarResult{}, ErrAvatarType
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return AvatarResult{}, fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		return AvatarResult{}, fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return AvatarResult{}, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+apiPrefix+"/users/me/avatar", &body)
	if err != nil {
		return AvatarResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AvatarResult{}, fmt.Errorf("call POST /users/me/avatar: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return AvatarResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return AvatarResult{}, newAPIError(resp.StatusCode, raw)
	}

	var out AvatarResult
	if err := decodeData(raw, &out); err != nil {
		return AvatarResult{}, err
	}
	return out, nil
}
