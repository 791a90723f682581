package model

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemRef(t *testing.T) {
	ref, err := ParseItemRef("42")
	require.NoError(t, err)
	assert.Equal(t, CatalogRef(42), ref)

	ref, err = ParseItemRef("pkg-3")
	require.NoError(t, err)
	assert.Equal(t, VirtualRef("pkg-3"), ref)

	_, err = ParseItemRef("")
	assert.Error(t, err)
}

func TestItemRefString(t *testing.T) {
	assert.Equal(t, "42", CatalogRef(42).String())
	assert.Equal(t, "build-abc", VirtualRef("build-abc").String())
}

func TestItemRefIsBuild(t *testing.T) {
	assert.True(t, VirtualRef("build-abc").IsBuild())
	assert.False(t, VirtualRef("pkg-3").IsBuild())
	assert.False(t, CatalogRef(42).IsBuild())
}

func TestItemRefWireShape(t *testing.T) {
	// Catalog ids travel as JSON numbers, virtual ids as strings.
	raw, err := json.Marshal(CatalogRef(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(raw))

	raw, err = json.Marshal(VirtualRef("pkg-3"))
	require.NoError(t, err)
	assert.Equal(t, `"pkg-3"`, string(raw))
}

func TestItemRefUnmarshal(t *testing.T) {
	var ref ItemRef
	require.NoError(t, json.Unmarshal([]byte("42"), &ref))
	assert.Equal(t, CatalogRef(42), ref)

	require.NoError(t, json.Unmarshal([]byte(`"pkg-3"`), &ref))
	assert.Equal(t, VirtualRef("pkg-3"), ref)

	assert.Error(t, json.Unmarshal([]byte(`""`), &ref))
	assert.Error(t, json.Unmarshal([]byte("true"), &ref))
}

func TestCartLineJSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(CartLine{
		Ref: VirtualRef("pkg-3"), Name: "Starter Bundle", UnitPrice: 25000,
		ImageURL: "/img/bundle.png", Quantity: 2,
	})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "pkg-3", fields["id"])
	assert.Equal(t, "Starter Bundle", fields["name"])
	assert.Equal(t, 25000.0, fields["price"])
	assert.Equal(t, "/img/bundle.png", fields["image"])
	assert.Equal(t, 2.0, fields["quantity"])
}

func TestCartRowRef(t *testing.T) {
	catalog := CartRow{ProductID: sql.NullInt64{Int64: 7, Valid: true}}
	assert.Equal(t, CatalogRef(7), catalog.Ref())

	virtual := CartRow{VirtualItemID: sql.NullString{String: "pkg-3", Valid: true}}
	assert.Equal(t, VirtualRef("pkg-3"), virtual.Ref())
}
