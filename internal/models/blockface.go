package models

// LatLon is a rendering coordinate pair ordered [lat, lon], the order map
// clients draw polylines in.
type LatLon [2]float64

// BlockfaceGroup is a set of sign records that describe one physical curb
// segment: same street, same cross streets, same side, same rule text.
type BlockfaceGroup struct {
	Key     string
	Records []SignRecord
}

// First returns the representative record used for display metadata.
func (g *BlockfaceGroup) First() SignRecord {
	return g.Records[0]
}

// BlockfaceLine is the final renderable product: a laterally offset slice of
// a street centerline annotated with the rule that applies to that curb.
// Derived per request, never persisted.
type BlockfaceLine struct {
	ID        string   `json:"id"`
	Polyline  []LatLon `json:"polyline"`
	Street    string   `json:"street"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	SideLabel string   `json:"sideLabel"`
	Rule      string   `json:"rule"`
}

// SignsResponse is the wire shape of the sign-record endpoint. Partial is
// set when some tiles failed; Note enumerates what went wrong. A partial
// response is still ok:true so clients can render what loaded.
type SignsResponse struct {
	OK      bool         `json:"ok"`
	Points  []SignRecord `json:"points"`
	Partial bool         `json:"partial,omitempty"`
	Note    string       `json:"note,omitempty"`
}

// BlockfacesResponse is the wire shape of the fused blockface endpoint.
type BlockfacesResponse struct {
	OK      bool            `json:"ok"`
	Lines   []BlockfaceLine `json:"lines"`
	Partial bool            `json:"partial,omitempty"`
	Note    string          `json:"note,omitempty"`
}
