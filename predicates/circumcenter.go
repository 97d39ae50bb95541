package predicates

import "github.com/sponticelli/trimesh/geometry"

// Circumcenter finds the circumcenter of the triangle (org, dest, apex). The
// returned xi and eta are barycentric offsets of the circumcenter relative to
// org along the org->dest and org->apex axes; refinement uses them to
// interpolate vertex attributes onto Steiner points.
func (cfg Config) Circumcenter(org, dest, apex geometry.Point) (geometry.Point, float64, float64) {
	return cfg.OffCenter(org, dest, apex, 0.0)
}

// OffCenter is Circumcenter with Üngör's off-center heuristic: when
// offConstant is positive and the plain circumcenter is far from the
// triangle's shortest edge, a point closer to that edge is returned instead.
// Splitting at the off-center gives the same angle guarantee while inserting
// fewer vertices.
func (cfg Config) OffCenter(org, dest, apex geometry.Point, offConstant float64) (geometry.Point, float64, float64) {
	xdo := dest.X - org.X
	ydo := dest.Y - org.Y
	xao := apex.X - org.X
	yao := apex.Y - org.Y

	dodist := xdo*xdo + ydo*ydo
	aodist := xao*xao + yao*yao
	dadist := (dest.X-apex.X)*(dest.X-apex.X) + (dest.Y-apex.Y)*(dest.Y-apex.Y)

	var denominator float64
	if cfg.NoExact {
		denominator = 0.5 / (xdo*yao - xao*ydo)
	} else {
		// The denominator is computed robustly so a near-degenerate triangle
		// does not send the circumcenter to the wrong side of the mesh.
		denominator = 0.5 / cfg.CounterClockwise(dest, apex, org)
	}

	dx := (yao*dodist - ydo*aodist) * denominator
	dy := (xdo*aodist - xao*dodist) * denominator

	if offConstant > 0.0 {
		// Find the position of the off-center relative to the shortest edge.
		if dodist < aodist && dodist < dadist {
			dxoff := 0.5*xdo - offConstant*ydo
			dyoff := 0.5*ydo + offConstant*xdo
			if dxoff*dxoff+dyoff*dyoff < dx*dx+dy*dy {
				dx = dxoff
				dy = dyoff
			}
		} else if aodist < dadist {
			dxoff := 0.5*xao + offConstant*yao
			dyoff := 0.5*yao - offConstant*xao
			if dxoff*dxoff+dyoff*dyoff < dx*dx+dy*dy {
				dx = dxoff
				dy = dyoff
			}
		} else {
			dxoff := 0.5*(apex.X-dest.X) - offConstant*(apex.Y-dest.Y)
			dyoff := 0.5*(apex.Y-dest.Y) + offConstant*(apex.X-dest.X)
			if dxoff*dxoff+dyoff*dyoff < (dx-xdo)*(dx-xdo)+(dy-ydo)*(dy-ydo) {
				dx = xdo + dxoff
				dy = ydo + dyoff
			}
		}
	}

	xi := (yao*dx - xao*dy) * (2.0 * denominator)
	eta := (xdo*dy - ydo*dx) * (2.0 * denominator)

	return geometry.Point{ID: -1, X: org.X + dx, Y: org.Y + dy}, xi, eta
}
