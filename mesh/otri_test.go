package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The handle algebra has to hold on every edge of a real mesh, so these tests
// walk a triangulation and check the operator identities on each handle.
func TestOtriAlgebra(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Triangulate(randomInput(50, 3)))

	for _, tri := range m.triangles {
		otri := Otri{tri, 0}
		for otri.orient = 0; otri.orient < 3; otri.orient++ {
			// Lnext cycles the three edges of one triangle.
			lnext := otri.Lnext()
			assert.True(t, lnext.Lnext().Lnext().Equal(otri))
			assert.True(t, otri.Lprev().Equal(lnext.Lnext()))

			// Lnext walks org -> dest -> apex.
			assert.Same(t, otri.Dest(), lnext.Org())
			assert.Same(t, otri.Apex(), lnext.Dest())
			assert.Same(t, otri.Org(), lnext.Apex())

			sym := otri.Sym()
			if sym.tri == m.dummytri {
				continue
			}
			// Sym is an involution that reverses the edge.
			assert.True(t, sym.Sym().Equal(otri))
			assert.Same(t, otri.Org(), sym.Dest())
			assert.Same(t, otri.Dest(), sym.Org())

			// Onext and Oprev rotate about the origin.
			onext := otri.Onext()
			if onext.tri != m.dummytri {
				assert.Same(t, otri.Org(), onext.Org())
				assert.True(t, onext.Oprev().Equal(otri))
			}
			dprev := otri.Dprev()
			if dprev.tri != m.dummytri {
				assert.Same(t, otri.Dest(), dprev.Dest())
				assert.True(t, dprev.Dnext().Equal(otri))
			}
		}
	}
}

func TestDummySentinels(t *testing.T) {
	m := New(nil)
	// The dummies must point at themselves so traversal off the hull is safe
	// without nil checks.
	dt := Otri{m.dummytri, 0}
	assert.Equal(t, m.dummytri, dt.Sym().tri)
	ds := Osub{m.dummysub, 0}
	assert.Equal(t, m.dummysub, ds.Pivot().seg)
}

func TestSubsegBonding(t *testing.T) {
	input := squareInput()
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 1))
	}
	m := New(nil)
	require.NoError(t, m.Triangulate(input))
	require.Equal(t, 4, m.NumberOfSubsegs())

	for _, s := range m.subsegs {
		osub := Osub{s, 0}
		// Each boundary subsegment has the mesh on one side only.
		inside := 0
		for osub.orient = 0; osub.orient < 2; osub.orient++ {
			tri := osub.TriPivot()
			if tri.tri == m.dummytri {
				continue
			}
			inside++
			// The triangle's edge must point back at this subsegment.
			back := tri.SegPivot()
			assert.Equal(t, s, back.seg)
			// And share its endpoints (in one order or the other).
			endpoints := map[*Vertex]bool{osub.Org(): true, osub.Dest(): true}
			assert.True(t, endpoints[tri.Org()] && endpoints[tri.Dest()])
		}
		assert.Equal(t, 1, inside, "boundary subsegment should bound exactly one triangle")
	}
}
