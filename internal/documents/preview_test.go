package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/config"
	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
)

type fakePresigner struct {
	bucket string
	key    string
	err    error
}

func (f *fakePresigner) PresignGet(ctx context.Context, bucket, key string) (string, error) {
	f.bucket = bucket
	f.key = key
	if f.err != nil {
		return "", f.err
	}
	return "https://signed.example.com/" + bucket + "/" + key, nil
}

func previewService(p Presigner) *Service {
	return NewService(p, config.PreviewConfig{S3Bucket: "nso-docs"}, zap.NewNop())
}

func taskWithFile(url string) *outlets.Task {
	return &outlets.Task{
		TaskID:   1,
		Title:    "LOI signed",
		Document: &outlets.Document{FileID: "f1", FileURL: url},
	}
}

func TestPreviewURLPassesThroughHTTP(t *testing.T) {
	p := &fakePresigner{}
	svc := previewService(p)

	url, err := svc.PreviewURL(context.Background(), taskWithFile("https://cdn.example.com/loi.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/loi.pdf", url)

	// No presigning happened.
	assert.Empty(t, p.bucket)
}

func TestPreviewURLPresignsS3URI(t *testing.T) {
	p := &fakePresigner{}
	svc := previewService(p)

	url, err := svc.PreviewURL(context.Background(), taskWithFile("s3://legal-bucket/outlets/7/loi.pdf"))
	require.NoError(t, err)

	assert.Equal(t, "legal-bucket", p.bucket)
	assert.Equal(t, "outlets/7/loi.pdf", p.key)
	assert.Equal(t, "https://signed.example.com/legal-bucket/outlets/7/loi.pdf", url)
}

func TestPreviewURLUsesConfiguredBucketForBareKeys(t *testing.T) {
	p := &fakePresigner{}
	svc := previewService(p)

	_, err := svc.PreviewURL(context.Background(), taskWithFile("outlets/7/agreement.pdf"))
	require.NoError(t, err)

	assert.Equal(t, "nso-docs", p.bucket)
	assert.Equal(t, "outlets/7/agreement.pdf", p.key)
}

func TestPreviewURLRefusesTasksWithoutDocument(t *testing.T) {
	svc := previewService(&fakePresigner{})

	_, err := svc.PreviewURL(context.Background(), &outlets.Task{TaskID: 2, Title: "Site visit"})
	assert.ErrorIs(t, err, ErrNoDocument)

	_, err = svc.PreviewURL(context.Background(), taskWithFile(""))
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestPreviewURLWithoutPresigner(t *testing.T) {
	svc := previewService(nil)

	// Direct URLs still work.
	url, err := svc.PreviewURL(context.Background(), taskWithFile("https://cdn.example.com/loi.pdf"))
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	// Keys that need signing do not.
	_, err = svc.PreviewURL(context.Background(), taskWithFile("outlets/7/loi.pdf"))
	assert.Error(t, err)
}

func TestLegalDocuments(t *testing.T) {
	legal := &outlets.Stage{
		StageName: "Legal",
		Tasks: []outlets.Task{
			{TaskID: 1, Document: &outlets.Document{FileURL: "s3://b/loi.pdf"}},
			{TaskID: 2},
			{TaskID: 3, Document: &outlets.Document{FileURL: "s3://b/agreement.pdf"}},
		},
	}

	docs := LegalDocuments(legal)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].TaskID)
	assert.Equal(t, 3, docs[1].TaskID)

	design := &outlets.Stage{StageName: "Design", Tasks: legal.Tasks}
	assert.Nil(t, LegalDocuments(design))
	assert.Nil(t, LegalDocuments(nil))
}
