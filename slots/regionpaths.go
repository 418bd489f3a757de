package slots

import (
	"encoding/hex"
	"fmt"
)

const (
	V1RegionPrefix = "v1/regions"

	V1RegionSnapshotNameFmt = "%016d.snap"
	V1RegionSealNameFmt     = "%016d.seal"
)

// RegionSnapshotPrefix returns the path under which a region's snapshot
// blobs are stored. Snapshots for one region sort by generation under a
// single prefix so the most recent is always the last listed.
func RegionSnapshotPrefix(region RegionID) string {
	return fmt.Sprintf("%s/%s/snapshots/", V1RegionPrefix, hex.EncodeToString(region))
}

// RegionSnapshotPath returns the blob path for the numbered snapshot
// generation of the region.
func RegionSnapshotPath(region RegionID, generation uint64) string {
	return RegionSnapshotPrefix(region) + fmt.Sprintf(V1RegionSnapshotNameFmt, generation)
}

// RegionSealPath returns the blob path for the seal over the numbered
// snapshot generation.
func RegionSealPath(region RegionID, generation uint64) string {
	return fmt.Sprintf(
		"%s/%s/seals/", V1RegionPrefix, hex.EncodeToString(region),
	) + fmt.Sprintf(V1RegionSealNameFmt, generation)
}
