package Photos

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"MagicPlanner/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploads []Upload
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, u Upload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, u)
	return "https://example.com/" + u.Object, nil
}

type fakeRecorder struct {
	records []Models.PhotoRecord
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, rec Models.PhotoRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeNotifier struct {
	calls []int64
	err   error
}

func (f *fakeNotifier) UpdateSubTaskCompletion(_ context.Context, id int64, state Models.SubTaskState) error {
	if state != Models.SubTaskDone {
		return errors.New("unexpected state")
	}
	f.calls = append(f.calls, id)
	return f.err
}

func pngPhoto(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func newPipeline() (*Pipeline, *fakeUploader, *fakeRecorder, *fakeNotifier) {
	u, r, n := &fakeUploader{}, &fakeRecorder{}, &fakeNotifier{}
	p := NewPipeline(u, r, n)
	p.MaxDimension = 100
	p.Now = func() time.Time { return time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC) }
	return p, u, r, n
}

func TestRunStoresCompressedProof(t *testing.T) {
	p, u, r, n := newPipeline()

	res, err := p.Run(context.Background(), Submission{TaskID: 3, SubTaskID: 31, Photo: pngPhoto(t, 400, 200)})
	require.NoError(t, err)

	assert.Equal(t, "Tasks/3_31_2024-05-10T08:30:00.000Z", res.Object)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 50, res.Height)

	require.Len(t, u.uploads, 1)
	up := u.uploads[0]
	assert.Equal(t, "image/jpeg", up.ContentType)
	assert.Equal(t, "100", up.Metadata["width"])
	assert.Equal(t, "50", up.Metadata["height"])
	assert.Equal(t, "2024-05-10T08:30:00.000Z", up.Metadata["currentDate"])

	decoded, err := jpeg.Decode(bytes.NewReader(up.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())

	require.Len(t, r.records, 1)
	assert.Equal(t, "3_31_2024-05-10T08:30:00.000Z", r.records[0].Name)
	assert.Equal(t, res.DownloadURL, r.records[0].DownloadURL)

	assert.Equal(t, []int64{31}, n.calls)
}

func TestRunKeepsSmallPhotoSize(t *testing.T) {
	p, _, _, _ := newPipeline()
	res, err := p.Run(context.Background(), Submission{TaskID: 1, SubTaskID: 2, Photo: pngPhoto(t, 40, 30)})
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
}

func TestRunStageFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("decode", func(t *testing.T) {
		p, u, _, n := newPipeline()
		_, err := p.Run(context.Background(), Submission{Photo: strings.NewReader("not an image")})
		stage, ok := FailedStage(err)
		require.True(t, ok)
		assert.Equal(t, StageDecode, stage)
		assert.Empty(t, u.uploads)
		assert.Empty(t, n.calls)
	})

	t.Run("missing photo", func(t *testing.T) {
		p, _, _, _ := newPipeline()
		_, err := p.Run(context.Background(), Submission{})
		stage, _ := FailedStage(err)
		assert.Equal(t, StageDecode, stage)
	})

	t.Run("upload", func(t *testing.T) {
		p, u, r, n := newPipeline()
		u.err = boom
		_, err := p.Run(context.Background(), Submission{Photo: pngPhoto(t, 10, 10)})
		stage, _ := FailedStage(err)
		assert.Equal(t, StageUpload, stage)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, r.records)
		assert.Empty(t, n.calls)
	})

	t.Run("record", func(t *testing.T) {
		p, _, r, n := newPipeline()
		r.err = boom
		_, err := p.Run(context.Background(), Submission{Photo: pngPhoto(t, 10, 10)})
		stage, _ := FailedStage(err)
		assert.Equal(t, StageRecord, stage)
		assert.Empty(t, n.calls)
	})

	t.Run("notify", func(t *testing.T) {
		p, _, _, n := newPipeline()
		n.err = boom
		_, err := p.Run(context.Background(), Submission{SubTaskID: 9, Photo: pngPhoto(t, 10, 10)})
		stage, _ := FailedStage(err)
		assert.Equal(t, StageNotify, stage)
		assert.Equal(t, []int64{9}, n.calls)
	})
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("demo.appspot.com", "Tasks/1_2_2024-05-10T08:30:00.000Z", "tok")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/Tasks%2F1_2_2024-05-10T08:30:00.000Z?alt=media&token=tok", got)
}
