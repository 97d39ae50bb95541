package mesh

// badSubseg records an encroached subsegment along with the endpoints it had
// when queued, so a stale entry (the segment has since been split) can be
// recognized and skipped.
type badSubseg struct {
	subseg    Osub
	org, dest *Vertex
}

// badTriangle is a queued low-quality triangle. The key is the square of its
// shortest edge; the three vertices identify stale entries, as with
// badSubseg.
type badTriangle struct {
	poortri         Otri
	key             float64
	org, dest, apex *Vertex
	next            *badTriangle
}

const sqrt2 = 1.4142135623730950488016887242096980785696718753769

// badTriQueue holds bad triangles in 4096 FIFO buckets keyed by the binary
// exponent of the shortest-edge length, so the triangle with (approximately)
// the shortest edge is always split first. Nonempty buckets are linked so a
// dequeue never scans empty ones.
type badTriQueue struct {
	front [4096]*badTriangle
	tail  [4096]*badTriangle

	firstNonempty int
	nextNonempty  [4096]int

	items int
}

func (q *badTriQueue) reset() {
	for i := range q.front {
		q.front[i] = nil
		q.tail[i] = nil
	}
	q.firstNonempty = -1
	q.items = 0
}

func (q *badTriQueue) enqueue(badtri *badTriangle) {
	// Classify the key as a power of two by repeated squaring, then refine
	// to a power of sqrt(2).
	var length float64
	posexponent := true
	if badtri.key >= 1.0 {
		length = badtri.key
	} else {
		posexponent = false
		length = 1.0 / badtri.key
	}
	exponent := 0
	for length > 2.0 {
		expincrement := 1
		multiplier := 0.5
		for length*multiplier*multiplier > 1.0 {
			expincrement *= 2
			multiplier *= multiplier
		}
		exponent += expincrement
		length *= multiplier
	}
	exponent *= 2
	if length > sqrt2 {
		exponent++
	}

	var queuenumber int
	if posexponent {
		queuenumber = 2047 - exponent
	} else {
		queuenumber = 2048 + exponent
	}
	if queuenumber < 0 {
		queuenumber = 0
	}
	if queuenumber > 4095 {
		queuenumber = 4095
	}

	if q.front[queuenumber] == nil {
		if queuenumber > q.firstNonempty {
			q.nextNonempty[queuenumber] = q.firstNonempty
			q.firstNonempty = queuenumber
		} else {
			i := queuenumber + 1
			for q.front[i] == nil {
				i++
			}
			q.nextNonempty[queuenumber] = q.nextNonempty[i]
			q.nextNonempty[i] = queuenumber
		}
		q.front[queuenumber] = badtri
	} else {
		q.tail[queuenumber].next = badtri
	}
	q.tail[queuenumber] = badtri
	badtri.next = nil
	q.items++
}

func (q *badTriQueue) dequeue() *badTriangle {
	if q.firstNonempty < 0 {
		return nil
	}
	result := q.front[q.firstNonempty]
	q.front[q.firstNonempty] = result.next
	if result == q.tail[q.firstNonempty] {
		q.firstNonempty = q.nextNonempty[q.firstNonempty]
	}
	q.items--
	return result
}
