package query_test

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// memStore is an in-memory RecordStore for tests. It evaluates the
// aggregation stages the query layer actually emits ($match, $project,
// $group with $sum, $sort) over plain bson.M documents, so the
// operations can be exercised end-to-end without a live MongoDB.
type memStore struct {
	docs []bson.M
	err  error // forced failure for error-path tests
}

func (m *memStore) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	if m.err != nil {
		return m.err
	}

	docs := make([]bson.M, len(m.docs))
	copy(docs, m.docs)

	for _, stage := range pipeline {
		if len(stage) != 1 {
			return fmt.Errorf("unexpected stage shape: %v", stage)
		}
		op := stage[0]
		spec, ok := op.Value.(bson.D)
		if !ok {
			return fmt.Errorf("stage %s: unexpected spec type %T", op.Key, op.Value)
		}
		var err error
		switch op.Key {
		case "$match":
			docs, err = applyMatch(docs, spec)
		case "$project":
			docs, err = applyProject(docs, spec)
		case "$group":
			docs, err = applyGroup(docs, spec)
		case "$sort":
			docs, err = applySort(docs, spec)
		default:
			err = fmt.Errorf("unsupported stage: %s", op.Key)
		}
		if err != nil {
			return err
		}
	}

	return decodeInto(docs, out)
}

func (m *memStore) Distinct(ctx context.Context, field string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	var values []string
	for _, doc := range m.docs {
		v, ok := doc[field]
		if !ok {
			continue
		}
		s := fmt.Sprint(v)
		if !seen[s] {
			seen[s] = true
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}

func applyMatch(docs []bson.M, spec bson.D) ([]bson.M, error) {
	var out []bson.M
	for _, doc := range docs {
		keep := true
		for _, cond := range spec {
			v := resolvePath(doc, cond.Key)
			if ops, ok := cond.Value.(bson.D); ok {
				for _, op := range ops {
					c := compareValues(v, op.Value)
					switch op.Key {
					case "$gte":
						keep = keep && c >= 0
					case "$lte":
						keep = keep && c <= 0
					case "$eq":
						keep = keep && c == 0
					default:
						return nil, fmt.Errorf("unsupported match operator: %s", op.Key)
					}
				}
			} else {
				keep = keep && compareValues(v, cond.Value) == 0
			}
		}
		if keep {
			out = append(out, doc)
		}
	}
	return out, nil
}

func applyProject(docs []bson.M, spec bson.D) ([]bson.M, error) {
	out := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		proj := bson.M{}
		for _, field := range spec {
			switch v := field.Value.(type) {
			case int, int32, int64:
				if toFloat(v) != 0 {
					if val, ok := lookupPath(doc, field.Key); ok {
						proj[field.Key] = val
					}
				}
			case string:
				if strings.HasPrefix(v, "$") {
					if val, ok := lookupPath(doc, v[1:]); ok {
						proj[field.Key] = val
					}
				}
			default:
				return nil, fmt.Errorf("unsupported projection for %s: %T", field.Key, field.Value)
			}
		}
		out = append(out, proj)
	}
	return out, nil
}

func applyGroup(docs []bson.M, spec bson.D) ([]bson.M, error) {
	type bucket struct {
		doc   bson.M
		order int
	}
	buckets := map[string]*bucket{}

	for _, doc := range docs {
		var idValue any
		for _, field := range spec {
			if field.Key != "_id" {
				continue
			}
			switch expr := field.Value.(type) {
			case string:
				idValue = resolvePath(doc, strings.TrimPrefix(expr, "$"))
			case bson.D:
				composite := bson.M{}
				for _, part := range expr {
					ref, _ := part.Value.(string)
					composite[part.Key] = resolvePath(doc, strings.TrimPrefix(ref, "$"))
				}
				idValue = composite
			default:
				return nil, fmt.Errorf("unsupported group _id expression: %T", field.Value)
			}
		}

		key := fmt.Sprint(idValue)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{doc: bson.M{"_id": idValue}, order: len(buckets)}
			buckets[key] = b
		}

		for _, field := range spec {
			if field.Key == "_id" {
				continue
			}
			acc, ok := field.Value.(bson.D)
			if !ok || len(acc) != 1 || acc[0].Key != "$sum" {
				return nil, fmt.Errorf("unsupported accumulator for %s", field.Key)
			}
			ref, _ := acc[0].Value.(string)
			val := toFloat(resolvePath(doc, strings.TrimPrefix(ref, "$")))
			cur, _ := b.doc[field.Key].(float64)
			b.doc[field.Key] = cur + val
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	out := make([]bson.M, len(ordered))
	for i, b := range ordered {
		out[i] = b.doc
	}
	return out, nil
}

func applySort(docs []bson.M, spec bson.D) ([]bson.M, error) {
	out := make([]bson.M, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		for _, field := range spec {
			c := compareValues(resolvePath(out[i], field.Key), resolvePath(out[j], field.Key))
			dir := toFloat(field.Value)
			if c != 0 {
				if dir < 0 {
					return c > 0
				}
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

// decodeInto round-trips documents through bson so the same struct tags
// the real driver uses drive the decoding here.
func decodeInto(docs []bson.M, out any) error {
	slice := reflect.ValueOf(out).Elem()
	elemType := slice.Type().Elem()
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func resolvePath(doc bson.M, path string) any {
	v, _ := lookupPath(doc, path)
	return v
}

func lookupPath(doc bson.M, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = doc
	for _, p := range parts {
		m, ok := cur.(bson.M)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func compareValues(a, b any) int {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Compare(bt)
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs)
	}
	af, bf := toFloat(a), toFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
