package geo

import "github.com/roach88/esq/internal/dsl"

// IndexedShape references a shape already indexed in another document:
// {"id": ..., "type": ..., "index": ..., "path": ...}.
type IndexedShape struct {
	dsl.IndexedShapeMixin
}

// NewIndexedShape references document id of the given type. Both are
// required.
func NewIndexedShape(docType, id string) (*IndexedShape, error) {
	if docType == "" {
		return nil, &dsl.TypeError{Op: "indexed_shape.type", Want: "non-empty string", Got: docType}
	}
	if id == "" {
		return nil, &dsl.TypeError{Op: "indexed_shape.id", Want: "non-empty string", Got: id}
	}
	s := &IndexedShape{IndexedShapeMixin: dsl.NewIndexedShapeMixin()}
	s.Body()["type"] = docType
	s.Body()["id"] = id
	return s, nil
}

func (s *IndexedShape) setString(key, v string) *IndexedShape {
	if v != "" {
		s.Body()[key] = v
	}
	return s
}

// SetID sets the id of the document holding the shape.
func (s *IndexedShape) SetID(id string) *IndexedShape { return s.setString("id", id) }

// ID returns the document id.
func (s *IndexedShape) ID() string {
	id, _ := dsl.Lookup[string](s.Body(), "id")
	return id
}

// SetType sets the document type.
func (s *IndexedShape) SetType(docType string) *IndexedShape { return s.setString("type", docType) }

// Type returns the document type.
func (s *IndexedShape) Type() string {
	t, _ := dsl.Lookup[string](s.Body(), "type")
	return t
}

// SetIndex sets the index holding the shape. Defaults to "shapes" server side.
func (s *IndexedShape) SetIndex(index string) *IndexedShape { return s.setString("index", index) }

// Index returns the index, if set.
func (s *IndexedShape) Index() (string, bool) { return dsl.Lookup[string](s.Body(), "index") }

// SetPath sets the field path of the shape inside the document.
// Defaults to "shape" server side.
func (s *IndexedShape) SetPath(path string) *IndexedShape { return s.setString("path", path) }

// Path returns the path, if set.
func (s *IndexedShape) Path() (string, bool) { return dsl.Lookup[string](s.Body(), "path") }
