package orm

// -----------------------------------------------------------------------------
// Relationship Resolver
// -----------------------------------------------------------------------------
// belongsTo: related[ForeignKey] == parent[LocalKey] olan tek satır; parent
// anahtarı null ise veya eşleşme yoksa nil (hata değil).
// hasMany:   aynı koşulu sağlayan tüm satırlar; eşleşme yoksa boş koleksiyon.
//
// Eager load (With) her ilişki için tüm parent anahtarlarını toplar ve tek
// bir "ForeignKey in (...)" sorgusu çalıştırır; sonuç bellekte anahtara göre
// dağıtılır. Parent başına sorgu atılmaz.
// -----------------------------------------------------------------------------

import (
	"context"
	"fmt"
)

func (b *Builder) resolveRelation(ctx context.Context, rel Relationship, parent *Model) (any, error) {
	local := parent.Get(rel.LocalKey)

	switch rel.Kind {
	case RelationBelongsTo:
		if local == nil {
			return nil, nil
		}
		related, err := b.relatedBuilder(rel.Related).Where(rel.ForeignKey, local).First(ctx)
		if err != nil || related == nil {
			return nil, err
		}
		return related, nil

	case RelationHasMany:
		if local == nil {
			return NewCollection(), nil
		}
		return b.relatedBuilder(rel.Related).Where(rel.ForeignKey, local).Get(ctx)
	}
	return nil, fmt.Errorf("unknown relationship kind %q", rel.Kind)
}

func (b *Builder) eagerLoad(ctx context.Context, name string, parents []*Model) error {
	rel, _ := b.def.Relationship(name)
	if len(parents) == 0 {
		return nil
	}

	keys := make([]any, 0, len(parents))
	seen := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		v := p.Get(rel.LocalKey)
		if v == nil {
			continue
		}
		k := relationKey(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, v)
	}

	grouped := make(map[string][]*Model)
	if len(keys) > 0 {
		children, err := b.relatedBuilder(rel.Related).WhereIn(rel.ForeignKey, keys).Get(ctx)
		if err != nil {
			return err
		}
		for _, child := range children.items {
			k := relationKey(child.Get(rel.ForeignKey))
			grouped[k] = append(grouped[k], child)
		}
	}

	for _, p := range parents {
		var matched []*Model
		if v := p.Get(rel.LocalKey); v != nil {
			matched = grouped[relationKey(v)]
		}
		if rel.Kind == RelationHasMany {
			p.setRelation(name, NewCollection(matched...))
			continue
		}
		if len(matched) == 0 {
			p.setRelation(name, nil)
			continue
		}
		p.setRelation(name, matched[0])
	}

	b.rt.logger.Debug("relation eager loaded", "table", b.def.Table, "relation", name, "parents", len(parents), "keys", len(keys))
	return nil
}

// relationKey, int64(7) ile float64(7) gibi farklı tiplerde gelen aynı
// anahtarı eşitler.
func relationKey(v any) string {
	return fmt.Sprint(v)
}
