package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

// fakeS3 answers the path-style PutObject, DeleteObject and ListObjectsV2
// calls the S3 store makes, and records what it was sent.
type fakeS3 struct {
	mu   sync.Mutex
	reqs []s3Request
}

func (f *fakeS3) requests() []s3Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]s3Request(nil), f.reqs...)
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	q := map[string]string{}
	for k, v := range r.URL.Query() {
		q[k] = v[0]
	}

	f.mu.Lock()
	f.reqs = append(f.reqs, s3Request{Method: r.Method, Path: r.URL.Path, Query: q, Body: string(body)})
	f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/xml")
		if q["continuation-token"] == "" {
			fmt.Fprint(w, listPage("photos/a.jpg", "page-2"))
		} else {
			fmt.Fprint(w, listPage("photos/b.png", ""))
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listPage(key, next string) string {
	truncated := "false"
	token := ""
	if next != "" {
		truncated = "true"
		token = "<NextContinuationToken>" + next + "</NextContinuationToken>"
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>photos-bucket</Name><Prefix>photos/</Prefix><KeyCount>1</KeyCount><MaxKeys>1000</MaxKeys>
<IsTruncated>` + truncated + `</IsTruncated>` + token + `
<Contents><Key>` + key + `</Key><LastModified>2024-01-01T00:00:00.000Z</LastModified><Size>3</Size></Contents>
</ListBucketResult>`
}

func newTestS3(t *testing.T) (*S3, *fakeS3) {
	t.Helper()

	// static credentials and no shared files so the test never reaches
	// a real account
	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", empty)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", empty)
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewS3(context.Background(), S3Options{
		Bucket:    "photos-bucket",
		Prefix:    "photos/",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		PathStyle: true,
	})
	require.NoError(t, err)
	return store, fake
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Options{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3_Put(t *testing.T) {
	store, fake := newTestS3(t)

	ref, err := store.Put(context.Background(), Upload{
		Filename:    "Bridge.JPG",
		ContentType: "image/jpeg",
		Size:        int64(len("jpeg-bytes")),
		Body:        strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "photos/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".jpg"), ref)

	reqs := fake.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/photos-bucket/"+ref, reqs[0].Path)
	assert.Contains(t, reqs[0].Body, "jpeg-bytes")
}

func TestS3_Delete(t *testing.T) {
	store, fake := newTestS3(t)

	require.NoError(t, store.Delete(context.Background(), "photos/a.jpg"))

	reqs := fake.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/photos-bucket/photos/a.jpg", reqs[0].Path)
}

func TestS3_DeleteRejectsRefOutsidePrefix(t *testing.T) {
	store, fake := newTestS3(t)

	for _, ref := range []string{"", "other/a.jpg", "a.jpg"} {
		err := store.Delete(context.Background(), ref)
		assert.True(t, errors.Is(err, ErrInvalidRef), "ref %q", ref)
	}
	assert.Empty(t, fake.requests())
}

func TestS3_ListWalksEveryPage(t *testing.T) {
	store, fake := newTestS3(t)

	objs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "photos/a.jpg", objs[0].Ref)
	assert.Equal(t, "photos/b.png", objs[1].Ref)
	assert.Equal(t, int64(3), objs[0].Size)
	assert.Equal(t, 2024, objs[0].ModTime.Year())

	reqs := fake.requests()
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/photos-bucket", strings.TrimSuffix(r.Path, "/"))
		assert.Equal(t, "2", r.Query["list-type"])
		assert.Equal(t, "photos/", r.Query["prefix"])
	}
	assert.Empty(t, reqs[0].Query["continuation-token"])
	assert.Equal(t, "page-2", reqs[1].Query["continuation-token"])
}
