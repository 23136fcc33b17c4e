package service

import (
	"sort"

	"ExploreTg-App/internal/domain/model"
)

// DeriveFacetOptions は各階層で選べる値を計算する
//
// 種別と地域は制約なし。県以下は、自分より上位の地理階層で選択済みの値に
// 一致する lieu だけから候補を集める（上位の選択が空ならその階層は制約なし）。
// 結果は昇順・重複なし・空値なし。
func DeriveFacetOptions(places []model.Place, sel model.Selection) model.FacetOptions {
	return model.FacetOptions{
		Types:       deriveLevel(places, sel, model.LevelType),
		Regions:     deriveLevel(places, sel, model.LevelRegion),
		Prefectures: deriveLevel(places, sel, model.LevelPrefecture),
		Communes:    deriveLevel(places, sel, model.LevelCommune),
		Cantons:     deriveLevel(places, sel, model.LevelCanton),
		Localities:  deriveLevel(places, sel, model.LevelLocality),
	}
}

// deriveLevel は1階層分の候補値を計算する
func deriveLevel(places []model.Place, sel model.Selection, level model.FacetLevel) []string {
	seen := make(map[string]struct{})
	for i := range places {
		p := &places[i]
		if !matchesAncestors(p, sel, level) {
			continue
		}
		v := level.Value(p)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// matchesAncestors は lieu が level より上位の地理階層の選択を全て満たすか
// 種別は地理と独立なので、どの階層の制約にもならない
func matchesAncestors(p *model.Place, sel model.Selection, level model.FacetLevel) bool {
	if !level.IsGeo() {
		return true
	}
	for _, ancestor := range model.GeoLevels {
		if ancestor >= level {
			break
		}
		set := sel.Values(ancestor)
		if set.Empty() {
			continue
		}
		if !set.Has(ancestor.Value(p)) {
			return false
		}
	}
	return true
}

// PruneOrphans は上位階層の選択変更で候補から外れた下位の選択値を取り除く
//
// 上位から順に、その時点の（すでに刈り込んだ）上位選択で候補を再計算し、
// 候補に無い選択値を外す。外した値は戻り値で報告する。
// 種別と地域は常に全 lieu から候補が作られるため、存在しない値だけが外れる。
func PruneOrphans(places []model.Place, sel model.Selection) (model.Selection, []model.PrunedSelection) {
	pruned := cloneSelection(sel)
	var removed []model.PrunedSelection

	for _, level := range model.AllLevels {
		set := pruned.Values(level)
		if set.Empty() {
			continue
		}

		available := make(map[string]struct{})
		for _, v := range deriveLevel(places, pruned, level) {
			available[v] = struct{}{}
		}

		for _, v := range set.Sorted() {
			if _, ok := available[v]; ok {
				continue
			}
			delete(set, v)
			removed = append(removed, model.PrunedSelection{Level: level.Key(), Value: v})
		}
	}

	return pruned, removed
}

// BuildFacetGroups は候補値と選択状態から表示用のグループを作る
func BuildFacetGroups(options model.FacetOptions, sel model.Selection) []model.FacetGroup {
	groups := make([]model.FacetGroup, 0, len(model.AllLevels))
	for _, level := range model.AllLevels {
		selected := sel.Values(level)
		values := options.ForLevel(level)
		opts := make([]model.FacetOption, len(values))
		for i, v := range values {
			opts[i] = model.FacetOption{Value: v, Selected: selected.Has(v)}
		}
		groups = append(groups, model.FacetGroup{
			Level:    level.Key(),
			Title:    level.Title(),
			Options:  opts,
			Selected: len(selected),
		})
	}
	return groups
}

// cloneSelection は選択集合を複製する（呼び出し元の状態を書き換えないため）
func cloneSelection(sel model.Selection) model.Selection {
	out := sel
	out.Facets = make(map[model.FacetLevel]model.ValueSet, len(sel.Facets))
	for level, set := range sel.Facets {
		copied := make(model.ValueSet, len(set))
		for v := range set {
			copied[v] = struct{}{}
		}
		out.Facets[level] = copied
	}
	return out
}
