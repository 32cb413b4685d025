package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_StoreProofLocal(t *testing.T) {
	dir := t.TempDir()
	provider, err := NewLocalProvider(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	svc := NewService(provider)
	ref, err := svc.StoreProof(context.Background(), []byte("jpeg-bytes"), ProofMeta{
		Sender:      "+51999888777",
		ContentType: "image/jpeg",
		ReceivedAt:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref.PublicID, "comprobantes/comprobante_51999888777_20240301-103000_"))
	assert.True(t, strings.HasSuffix(ref.PublicID, ".jpg"))
	assert.Equal(t, "http://localhost:8080/uploads/"+ref.PublicID, ref.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(ref.PublicID)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, svc.Delete(context.Background(), ref.PublicID))
	assert.Error(t, svc.Delete(context.Background(), ref.PublicID))
}

func TestService_StoreProofRejects(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "http://localhost")
	require.NoError(t, err)
	svc := NewService(provider)
	ctx := context.Background()

	_, err = svc.StoreProof(ctx, nil, ProofMeta{ContentType: "image/png"})
	assert.Error(t, err)

	_, err = svc.StoreProof(ctx, []byte("x"), ProofMeta{ContentType: "video/mp4"})
	assert.ErrorContains(t, err, "not allowed")

	big := make([]byte, 11*1024*1024)
	_, err = svc.StoreProof(ctx, big, ProofMeta{ContentType: "image/png"})
	assert.ErrorContains(t, err, "maximum")
}

func TestLocalProvider_KeysStayInsideRoot(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = provider.Upload(ctx, Object{Key: "../escape.jpg"}, strings.NewReader("x"))
	assert.ErrorContains(t, err, "invalid object key")

	res, err := provider.Upload(ctx, Object{Key: "/comprobantes/a.jpg"}, strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, "comprobantes/a.jpg", res.PublicID)
	assert.Equal(t, int64(3), res.Size)

	_, err = provider.Upload(ctx, Object{Key: "comprobantes/a.jpg"}, strings.NewReader("other"))
	assert.ErrorContains(t, err, "already exists")
}

func TestServiceWithPolicyAndExtensions(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "http://localhost")
	require.NoError(t, err)
	svc := NewServiceWithPolicy(provider, ProofPolicy{Folder: "x", MaxSize: 5, AllowedTypes: []string{"image/png"}})

	ref, err := svc.StoreProof(context.Background(), []byte("png"), ProofMeta{Sender: "+51", ContentType: "IMAGE/PNG; q=1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.PublicID, "x/comprobante_51_"))
	assert.True(t, strings.HasSuffix(ref.PublicID, ".png"))

	_, err = svc.StoreProof(context.Background(), []byte("too-big"), ProofMeta{ContentType: "image/png"})
	assert.ErrorContains(t, err, "maximum")

	assert.Equal(t, ".jpg", extensionFor("image/jpeg; charset=binary"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".bin", extensionFor("application/zip"))
}
