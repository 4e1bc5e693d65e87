// Copyright 2024 The mosaic-generator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type upload struct {
	field, name string
	data        []byte
}

func newUploadRequest(t *testing.T, url string, uploads []upload, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, u := range uploads {
		fw, err := mw.CreateFormFile(u.field, u.name)
		require.NoError(t, err)
		_, err = fw.Write(u.data)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())
	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func setupTestServer(t *testing.T) (*httptest.Server, *Context) {
	t.Helper()
	context := NewContext()
	context.TempDir = t.TempDir()
	server := httptest.NewServer(NewRouter(context))
	t.Cleanup(server.Close)
	return server, context
}

func defaultUploads(t *testing.T) []upload {
	return []upload{
		{InputKey, "input.jpg", encodeJPEG(t, solidImage(60, 60, black))},
		{PoolKey, "red.png", encodePNG(t, solidImage(30, 30, red))},
		{PoolKey, "black.png", encodePNG(t, solidImage(30, 30, black))},
	}
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestGenerateMosaic(t *testing.T) {
	server, context := setupTestServer(t)

	req := newUploadRequest(t, server.URL+"/generate_mosaic", defaultUploads(t),
		map[string]string{StrideKey: "30", OutputWidthKey: "500"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="mosaic.jpg"`, resp.Header.Get("Content-Disposition"))
	img, err := jpeg.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 60, 60), img.Bounds())
	for _, p := range []image.Point{{0, 0}, {45, 15}, {15, 45}, {59, 59}} {
		r, g, b, _ := img.At(p.X, p.Y).RGBA()
		assert.LessOrEqual(t, r>>8, uint32(8), "pixel %v", p)
		assert.LessOrEqual(t, g>>8, uint32(8), "pixel %v", p)
		assert.LessOrEqual(t, b>>8, uint32(8), "pixel %v", p)
	}
	requireEmptyDir(t, context.TempDir)
}

func TestGenerateMosaicDefaultStride(t *testing.T) {
	server, _ := setupTestServer(t)

	req := newUploadRequest(t, server.URL+"/generate_mosaic", defaultUploads(t), nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateMosaicBase64(t *testing.T) {
	server, _ := setupTestServer(t)

	req := newUploadRequest(t, server.URL+"/generate_mosaic?base64=true", defaultUploads(t), nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var encoded EncodedImage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&encoded))
	assert.Equal(t, "image/jpeg", encoded.MimeType)
	data, err := base64.StdEncoding.DecodeString(encoded.Data)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Width)
	assert.Equal(t, "data:image/jpeg;base64,"+encoded.Data, encoded.DataURL())
}

func TestGenerateMosaicBadRequests(t *testing.T) {
	server, context := setupTestServer(t)
	input := upload{InputKey, "input.jpg", encodeJPEG(t, solidImage(60, 60, black))}
	pool := upload{PoolKey, "red.png", encodePNG(t, solidImage(30, 30, red))}

	tests := []struct {
		name    string
		uploads []upload
		fields  map[string]string
		message string
	}{
		{"no input", []upload{pool}, nil, "No input image provided"},
		{"no pool", []upload{input}, nil, "No pool images provided"},
		{"stride not a number", []upload{input, pool}, map[string]string{StrideKey: "abc"}, ""},
		{"negative stride", []upload{input, pool}, map[string]string{StrideKey: "-3"}, ""},
		{"zero output width", []upload{input, pool}, map[string]string{OutputWidthKey: "0"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newUploadRequest(t, server.URL+"/generate_mosaic", tc.uploads, tc.fields)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			msg := decodeError(t, resp)
			if tc.message != "" {
				assert.Equal(t, tc.message, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}

	resp, err := http.Post(server.URL+"/generate_mosaic", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	requireEmptyDir(t, context.TempDir)
}

func TestGenerateMosaicGeneratorErrors(t *testing.T) {
	server, context := setupTestServer(t)
	tests := []struct {
		name    string
		uploads []upload
	}{
		{"invalid input", []upload{
			{InputKey, "input.jpg", []byte("this is not an image")},
			{PoolKey, "red.png", encodePNG(t, solidImage(30, 30, red))},
		}},
		{"empty pool", []upload{
			{InputKey, "input.jpg", encodeJPEG(t, solidImage(60, 60, black))},
			{PoolKey, "red.png", []byte("broken")},
			{PoolKey, "notes.txt", []byte("ignored")},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := newUploadRequest(t, server.URL+"/generate_mosaic", tc.uploads, nil)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.NotEmpty(t, decodeError(t, resp))
			requireEmptyDir(t, context.TempDir)
		})
	}
}

func TestGenerateMosaicUploadLimit(t *testing.T) {
	server, context := setupTestServer(t)
	context.MaxUpload = 1024

	req := newUploadRequest(t, server.URL+"/generate_mosaic", []upload{
		{InputKey, "input.jpg", bytes.Repeat([]byte{1}, 4096)},
		{PoolKey, "red.png", encodePNG(t, solidImage(30, 30, red))},
	}, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPoolFileName(t *testing.T) {
	assert.Equal(t, "0000-cat.png", poolFileName(0, "cat.png"))
	assert.Equal(t, "0012-cat.png", poolFileName(12, "../../etc/cat.png"))
	assert.Equal(t, "0001-cat.png", poolFileName(1, `C:\Users\me\cat.png`))
	assert.Equal(t, "0002-image", poolFileName(2, ""))
	assert.Equal(t, "0003-image", poolFileName(3, ".."))
}

func TestCORSPreflight(t *testing.T) {
	server, _ := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/generate_mosaic", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestStaticFiles(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>mosaic</html>"), 0o600))
	context := NewContext()
	context.StaticDir = static
	server := httptest.NewServer(NewRouter(context))
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>mosaic</html>", string(body))
}
