package repository

import (
	"fmt"

	"github.com/lib/pq"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/shared/query"
	"recipebook-backend/internal/shared/utils"
)

// buildWhereClause - translate the filter into conditions, in the fixed order
// name, description, difficulty, userId, kitchen, rations, time, type, ingredient, tag.
func buildWhereClause(f model.SearchFilter) *utils.WhereBuilder {
	w := &utils.WhereBuilder{}

	if f.Name != "" {
		w.Where(`r.name ILIKE ` + w.Arg(utils.ContainsPattern(f.Name)))
	}
	if f.Description != "" {
		w.Where(`r.description ILIKE ` + w.Arg(utils.ContainsPattern(f.Description)))
	}
	if f.Difficulty != "" {
		w.Where(`lower(r.difficulty) = lower(` + w.Arg(f.Difficulty) + `)`)
	}
	if f.UserID != nil {
		w.Where(`r.owner_id = ` + w.Arg(*f.UserID))
	}
	if f.Kitchen != "" {
		w.Where(`r.kitchen ILIKE ` + w.Arg(utils.ContainsPattern(f.Kitchen)))
	}
	if f.Rations != nil {
		w.Where(`r.rations ` + f.Rations.SQL() + ` ` + w.Arg(f.Rations.Value))
	}
	if f.Time != nil {
		w.Where(`r.time ` + f.Time.SQL() + ` ` + w.Arg(f.Time.Value))
	}
	if f.Type != "" {
		w.Where(`lower(r.type) = lower(` + w.Arg(f.Type) + `)`)
	}
	if f.Ingredient != "" {
		w.Where(`EXISTS (
			SELECT 1 FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
			WHERE ri.recipe_id = r.id AND lower(i.name) = lower(` + w.Arg(f.Ingredient) + `))`)
	}
	if f.Tag != "" {
		w.Where(`EXISTS (
			SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND lower(t.name) = lower(` + w.Arg(f.Tag) + `))`)
	}
	return w
}

// buildOrderBy - whitelisted column, default created_at then id for stable pages
func buildOrderBy(s *query.Sort) string {
	if s == nil {
		return ` ORDER BY r.created_at, r.id`
	}
	col, ok := model.SortFields[s.Field]
	if !ok {
		return ` ORDER BY r.created_at, r.id`
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	if col == "id" {
		return fmt.Sprintf(` ORDER BY r.id %s`, dir)
	}
	return fmt.Sprintf(` ORDER BY r.%s %s, r.id`, pq.QuoteIdentifier(col), dir)
}

// buildSearchQuery - page query; limit/offset are appended as the last two args
func buildSearchQuery(f model.SearchFilter) (string, []interface{}) {
	w := buildWhereClause(f)
	args := w.Args()
	n := len(args)
	args = append(args, query.PageSize, query.Offset(f.Page))

	q := recipeSelect + w.Clause() + buildOrderBy(f.Sort) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)
	return q, args
}

// buildCountQuery - same predicate as the page
func buildCountQuery(f model.SearchFilter) (string, []interface{}) {
	w := buildWhereClause(f)
	return `SELECT COUNT(*) FROM recipes r` + w.Clause(), w.Args()
}
