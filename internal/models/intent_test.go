package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadStatus_Active(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusUploading.Active(), "a row abandoned mid-pass must stay eligible")
	assert.False(t, StatusCompleted.Active())
	assert.False(t, StatusFailed.Active())
}

func TestUploadStatus_HasLocalBytes(t *testing.T) {
	assert.True(t, StatusPending.HasLocalBytes())
	assert.True(t, StatusUploading.HasLocalBytes())
	assert.True(t, StatusFailed.HasLocalBytes(), "failed intents keep their bytes for retry")
	assert.False(t, StatusCompleted.HasLocalBytes())
}

func TestDescriptors(t *testing.T) {
	photos := []StagedPhoto{
		{FileDescriptor: FileDescriptor{LocalPath: "a.jpg", OrderIndex: 0}, Data: []byte{1}},
		{FileDescriptor: FileDescriptor{LocalPath: "b.jpg", OrderIndex: 1}, Data: []byte{2}},
	}
	ds := Descriptors(photos)
	assert.Len(t, ds, 2)
	assert.Equal(t, "a.jpg", ds[0].LocalPath)
	assert.Equal(t, 1, ds[1].OrderIndex)
}
