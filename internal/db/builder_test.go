package db

import "testing"

func TestNewIndex_Defaults(t *testing.T) {
	def := NewIndex("test_idx").Build()

	if def.Name != "test_idx" {
		t.Errorf("Name = %q", def.Name)
	}
	if def.StorageType != StorageHash {
		t.Errorf("StorageType = %q, want HASH", def.StorageType)
	}
}

func TestIndexBuilder_FullDefinition(t *testing.T) {
	def := NewIndex("materials_idx").
		Prefix("tutorrag:study_materials:").
		Tag("subject").
		Tag("topic").
		Vector("vector", 1536, VectorFlat, DistanceCosine).
		Build()

	if len(def.Prefixes) != 1 || def.Prefixes[0] != "tutorrag:study_materials:" {
		t.Errorf("Prefixes = %v", def.Prefixes)
	}
	if len(def.Fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(def.Fields))
	}

	if def.Fields[0].Name != "subject" || def.Fields[0].Type != IndexFieldTag {
		t.Errorf("field 0 = %+v", def.Fields[0])
	}

	vec := def.Fields[2]
	if vec.Type != IndexFieldVector {
		t.Fatalf("field 2 type = %q", vec.Type)
	}
	if vec.VectorDim != 1536 || vec.VectorAlgo != VectorFlat || vec.VectorDistance != DistanceCosine {
		t.Errorf("vector field = %+v", vec)
	}
}

func TestIndexBuilder_HNSWParams(t *testing.T) {
	def := NewIndex("idx").
		Vector("vector", 128, VectorHNSW, DistanceCosine).
		HNSWParams(16, 200).
		Build()

	vec := def.Fields[0]
	if vec.VectorM != 16 || vec.VectorEFConstruct != 200 {
		t.Errorf("HNSW params = M:%d EF:%d, want 16/200", vec.VectorM, vec.VectorEFConstruct)
	}
}

func TestIndexBuilder_HNSWParamsNoVectorField(t *testing.T) {
	// Must not panic when no vector field was added.
	def := NewIndex("idx").Tag("subject").HNSWParams(16, 200).Build()

	if len(def.Fields) != 1 {
		t.Errorf("got %d fields, want 1", len(def.Fields))
	}
}
