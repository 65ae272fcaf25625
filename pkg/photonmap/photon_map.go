// Package photonmap stores photons deposited by the photon tracer and answers
// spatial queries over them once built.
package photonmap

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/df07/go-photon-mapper/pkg/core"
)

var (
	// ErrNotBuilt is returned by queries issued before Build
	ErrNotBuilt = errors.New("photon map is not built")
	// ErrBuilt is returned by Add and Build once the map has been built
	ErrBuilt = errors.New("photon map is already built")
)

// R-tree fan-out and the half-size of the box each photon occupies in it
const (
	treeDimensions = 3
	minChildren    = 25
	maxChildren    = 50
	pointExtent    = 1e-9
)

// Photon is a single light-path hit event on a diffuse surface
type Photon struct {
	Power             core.Vec3 // Carried flux (the walk's throughput at deposit)
	Position          core.Vec3 // Hit position
	IncomingDirection core.Vec3 // Direction toward where the photon came from
}

// Neighbor is a photon returned by a spatial query
type Neighbor struct {
	Index    int     // Index of the photon, valid for Photon(i)
	Distance float64 // Euclidean distance to the query point
}

// indexedPhoton is the R-tree entry for a photon
type indexedPhoton struct {
	index  int
	bounds rtreego.Rect
}

func (p *indexedPhoton) Bounds() rtreego.Rect {
	return p.bounds
}

// PhotonMap is a two-phase photon store: photons are appended, then Build
// freezes the content and makes it queryable. After Build the map is
// read-only and safe for concurrent queries.
type PhotonMap struct {
	photons []Photon
	tree    *rtreego.Rtree
	built   bool
}

// NewPhotonMap creates an empty photon map in the append phase
func NewPhotonMap() *PhotonMap {
	return &PhotonMap{}
}

// Add appends a photon. Not safe for concurrent use.
func (m *PhotonMap) Add(p Photon) error {
	if m.built {
		return ErrBuilt
	}
	m.photons = append(m.photons, p)
	return nil
}

// Build sorts the photons into a canonical order and bulk-loads the spatial
// index. The resulting map depends only on the set of photons added, not on
// the order they were added in.
func (m *PhotonMap) Build() error {
	if m.built {
		return ErrBuilt
	}

	slices.SortFunc(m.photons, comparePhotons)

	entries := make([]rtreego.Spatial, len(m.photons))
	for i, p := range m.photons {
		entries[i] = &indexedPhoton{index: i, bounds: toPoint(p.Position).ToRect(pointExtent)}
	}
	if len(entries) > 0 {
		m.tree = rtreego.NewTree(treeDimensions, minChildren, maxChildren, entries...)
	}
	m.built = true
	return nil
}

// IsBuilt reports whether Build has completed
func (m *PhotonMap) IsBuilt() bool {
	return m.built
}

// Len returns the number of photons stored
func (m *PhotonMap) Len() int {
	return len(m.photons)
}

// Photon returns the i-th photon in canonical order
func (m *PhotonMap) Photon(i int) (Photon, error) {
	if !m.built {
		return Photon{}, ErrNotBuilt
	}
	if i < 0 || i >= len(m.photons) {
		return Photon{}, fmt.Errorf("photon index %d out of range [0, %d)", i, len(m.photons))
	}
	return m.photons[i], nil
}

// Photons returns a copy of every stored photon in canonical order
func (m *PhotonMap) Photons() ([]Photon, error) {
	if !m.built {
		return nil, ErrNotBuilt
	}
	return slices.Clone(m.photons), nil
}

// Nearest returns the photon closest to p. ok is false for an empty map.
func (m *PhotonMap) Nearest(p core.Vec3) (Neighbor, bool, error) {
	neighbors, err := m.KNearest(p, 1)
	if err != nil || len(neighbors) == 0 {
		return Neighbor{}, false, err
	}
	return neighbors[0], true, nil
}

// KNearest returns up to k photons closest to p, sorted by distance. Ties
// are broken by photon index.
func (m *PhotonMap) KNearest(p core.Vec3, k int) ([]Neighbor, error) {
	if !m.built {
		return nil, ErrNotBuilt
	}
	if k <= 0 || len(m.photons) == 0 {
		return nil, nil
	}

	found := m.tree.NearestNeighbors(k, toPoint(p))
	return m.neighbors(p, found, math.Inf(1)), nil
}

// WithinRadius returns every photon within distance r of p, sorted by distance
func (m *PhotonMap) WithinRadius(p core.Vec3, r float64) ([]Neighbor, error) {
	if !m.built {
		return nil, ErrNotBuilt
	}
	if r < 0 || len(m.photons) == 0 {
		return nil, nil
	}

	box := toPoint(p).ToRect(r + pointExtent)
	found := m.tree.SearchIntersect(box)
	return m.neighbors(p, found, r), nil
}

// neighbors converts index hits into distance-sorted neighbors no farther than maxDist
func (m *PhotonMap) neighbors(p core.Vec3, found []rtreego.Spatial, maxDist float64) []Neighbor {
	result := make([]Neighbor, 0, len(found))
	for _, s := range found {
		entry, ok := s.(*indexedPhoton)
		if !ok || entry == nil {
			continue
		}
		d := m.photons[entry.index].Position.Subtract(p).Length()
		if d <= maxDist {
			result = append(result, Neighbor{Index: entry.index, Distance: d})
		}
	}
	slices.SortFunc(result, func(a, b Neighbor) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.Index, b.Index))
	})
	return result
}

func toPoint(v core.Vec3) rtreego.Point {
	return rtreego.Point{v.X, v.Y, v.Z}
}

func compareVec3(a, b core.Vec3) int {
	return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y), cmp.Compare(a.Z, b.Z))
}

func comparePhotons(a, b Photon) int {
	return cmp.Or(
		compareVec3(a.Position, b.Position),
		compareVec3(a.IncomingDirection, b.IncomingDirection),
		compareVec3(a.Power, b.Power),
	)
}
