package ingest

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reconciler/core/dataset"
	"reconciler/core/storage/mocks"
)

func TestLoader_LoadObject(t *testing.T) {
	client := new(mocks.Client)
	body := io.NopCloser(strings.NewReader("txn_id,amount\nT1,100.5\n"))
	client.On("GetObject", mock.Anything, "datasets", "bank/2024-03-01.csv", mock.Anything).
		Return(body, nil)

	ds, err := NewLoader(zap.NewNop()).LoadObject(context.Background(), client, "datasets", "bank/2024-03-01.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, ds.RowCount())
	assert.Equal(t, dataset.Number(100.5), ds.Cell("amount", 0))
	client.AssertExpectations(t)
}

func TestLoader_LoadObjectUnsupported(t *testing.T) {
	client := new(mocks.Client)
	_, err := NewLoader(zap.NewNop()).LoadObject(context.Background(), client, "datasets", "bank.parquet")
	assert.ErrorContains(t, err, "unsupported file format")
	client.AssertNotCalled(t, "GetObject")
}

func TestLoader_LoadObjectError(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "datasets", "bank.csv", mock.Anything).
		Return(nil, assert.AnError)

	_, err := NewLoader(zap.NewNop()).LoadObject(context.Background(), client, "datasets", "bank.csv")
	assert.ErrorContains(t, err, "get object datasets/bank.csv")
}
