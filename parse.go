package bunmem

import (
	"sort"
)

// ParsePipeline converts the JSON map form of a pipeline — the shape produced
// by decoding `[{"$match": ...}, {"$group": ...}]` — into typed stages.
// Stage objects that carry no recognized stage operator are skipped silently,
// matching the engine's permissive contract.
func ParsePipeline(raw []map[string]interface{}) []Stage {
	stages := make([]Stage, 0, len(raw))
	for _, stageMap := range raw {
		if stage, ok := parseStage(stageMap); ok {
			stages = append(stages, stage)
		}
	}
	return stages
}

func parseStage(stageMap map[string]interface{}) (Stage, bool) {
	if spec, ok := stageMap["$match"]; ok {
		if filter, ok := spec.(map[string]interface{}); ok {
			return MatchStage{Filter: Filter(filter)}, true
		}
		return MatchStage{}, true
	}

	if spec, ok := stageMap["$limit"]; ok {
		if n, ok := toFloat(spec); ok {
			return LimitStage{N: int(n)}, true
		}
		return nil, false
	}

	if spec, ok := stageMap["$skip"]; ok {
		if n, ok := toFloat(spec); ok {
			return SkipStage{N: int(n)}, true
		}
		return nil, false
	}

	if spec, ok := stageMap["$sort"]; ok {
		if keys, ok := spec.(map[string]interface{}); ok && len(keys) > 0 {
			// JSON decoding loses object order, so the "first" sort key of
			// a multi-key spec is resolved to the lexicographically smallest
			// field for determinism. Later keys are ignored either way.
			fields := make([]string, 0, len(keys))
			for field := range keys {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			dir := 1
			if d, ok := toFloat(keys[fields[0]]); ok && d < 0 {
				dir = -1
			}
			return SortStage{Key: SortKey{Field: fields[0], Direction: dir}}, true
		}
		return nil, false
	}

	if spec, ok := stageMap["$group"]; ok {
		if groupMap, ok := spec.(map[string]interface{}); ok {
			return parseGroup(groupMap), true
		}
		return nil, false
	}

	if spec, ok := stageMap["$lookup"]; ok {
		if lookupMap, ok := spec.(map[string]interface{}); ok {
			return LookupStage{
				From:         stringField(lookupMap, "from"),
				LocalField:   stringField(lookupMap, "localField"),
				ForeignField: stringField(lookupMap, "foreignField"),
				As:           stringField(lookupMap, "as"),
			}, true
		}
		return nil, false
	}

	return nil, false
}

func parseGroup(groupMap map[string]interface{}) GroupStage {
	stage := GroupStage{
		Key:          groupMap[IDField],
		Accumulators: make(map[string]Accumulator),
	}
	for alias, spec := range groupMap {
		if alias == IDField {
			continue
		}
		accMap, ok := spec.(map[string]interface{})
		if !ok {
			continue
		}
		for op, arg := range accMap {
			stage.Accumulators[alias] = Accumulator{Op: op, Arg: arg}
			break
		}
	}
	return stage
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
