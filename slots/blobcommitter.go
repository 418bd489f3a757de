package slots

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/datatrails/go-datatrails-common/logger"
)

var (
	ErrEtagRequired = errors.New("etag is required when updating any blob")
)

// regionBlobStore is the narrow view of the blob store the committer needs.
type regionBlobStore interface {
	Reader(
		ctx context.Context,
		identity string,
		opts ...azblob.Option,
	) (*azblob.ReaderResponse, error)

	Put(
		ctx context.Context,
		identity string,
		source io.ReadSeekCloser,
		opts ...azblob.Option,
	) (*azblob.WriteResponse, error)
}

// RegionBlobContext carries the blob identity and metadata for one region
// snapshot generation, alongside the snapshot data itself.
type RegionBlobContext struct {
	BlobPath      string
	ETag          string
	LastRead      time.Time
	LastModified  time.Time
	Data          []byte
	ContentLength int64

	// Creating is true when this generation has never been written.
	Creating bool
}

// ReadData reads the blob at BlobPath, populating the metadata fields from
// the store response. On return Data contains the blob contents.
func (rc *RegionBlobContext) ReadData(
	ctx context.Context, store regionBlobStore, opts ...azblob.Option) error {

	rr, data, err := BlobRead(ctx, rc.BlobPath, store, opts...)
	if err != nil {
		return err
	}
	rc.Data = data
	rc.ETag = *rr.ETag
	rc.LastRead = time.Now()
	rc.LastModified = *rr.LastModified
	rc.ContentLength = rr.ContentLength

	return nil
}

// RegionCommitter persists region snapshots to blob storage.
type RegionCommitter struct {
	Log   logger.Logger
	Store regionBlobStore
}

func NewRegionCommitter(log logger.Logger, store regionBlobStore) *RegionCommitter {
	c := &RegionCommitter{
		Log:   log,
		Store: store,
	}
	return c
}

// GetSnapshot reads the numbered snapshot generation for the region. The
// returned context carries the ETag needed to guard a subsequent commit of
// the same generation.
func (c *RegionCommitter) GetSnapshot(
	ctx context.Context, region RegionID, generation uint64) (RegionBlobContext, error) {

	rc := RegionBlobContext{
		BlobPath: RegionSnapshotPath(region, generation),
	}
	if err := rc.ReadData(ctx, c.Store); err != nil {
		return rc, err
	}
	return rc, nil
}

// CommitContext writes the snapshot data carried by rc.
//
// The etag guards are CRITICAL: an update must match the etag from the read
// that produced the data, and a create must require that no blob exists.
// Without both, concurrent committers would racily overwrite each other and
// the store digest in any published seal would silently stop matching the
// stored snapshot.
func (c *RegionCommitter) CommitContext(
	ctx context.Context, rc RegionBlobContext) (*azblob.WriteResponse, error) {

	var opts []azblob.Option
	if rc.ETag != "" {
		opts = append(opts, azblob.WithEtagMatch(rc.ETag))
	} else {
		if !rc.Creating {
			return nil, ErrEtagRequired
		}
	}
	if rc.Creating {
		// The way to spell 'fail without modifying if the blob exists' is to
		// require that no blob matches *any* etag.
		opts = append(opts, azblob.WithEtagNoneMatch("*"))
	}

	wr, err := c.Store.Put(ctx, rc.BlobPath, azblob.NewBytesReaderCloser(rc.Data), opts...)
	if err != nil {
		return wr, err
	}
	c.Log.Debugf("regioncommitter: put %s (%d bytes)", rc.BlobPath, len(rc.Data))
	return wr, nil
}

// CommitSnapshot snapshots store and writes it as the numbered generation
// for the region. A generation is written exactly once, use the next
// generation number to commit new state.
func (c *RegionCommitter) CommitSnapshot(
	ctx context.Context, region RegionID, generation uint64, store *MemoryStore,
) (*azblob.WriteResponse, error) {

	data, err := store.MarshalBinary()
	if err != nil {
		return nil, err
	}
	rc := RegionBlobContext{
		BlobPath: RegionSnapshotPath(region, generation),
		Data:     data,
		Creating: true,
	}
	return c.CommitContext(ctx, rc)
}

// BlobRead reads the blob at blobPath returning the store response and the
// fully read data. On return the response reader is exhausted, regardless of
// error.
func BlobRead(
	ctx context.Context, blobPath string, store regionBlobStore, opts ...azblob.Option,
) (*azblob.ReaderResponse, []byte, error) {

	rr, err := store.Reader(ctx, blobPath, opts...)
	if err != nil {
		return nil, nil, err
	}
	data, err := io.ReadAll(rr.Reader)
	if err != nil {
		return nil, nil, err
	}
	return rr, data, nil
}
