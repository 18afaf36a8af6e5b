package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testArticle struct {
	Identity
	Title string
	Price int64
	Tags  []string
}

func testArticleTable() Table[*testArticle] {
	return Table[*testArticle]{
		Name: "articles",
		Columns: []Column[*testArticle]{
			ColumnOf("title", func(a *testArticle) *string { return &a.Title }),
			ColumnOf("price", func(a *testArticle) *int64 { return &a.Price }),
			JSONColumnOf("tags", func(a *testArticle) *[]string { return &a.Tags }),
		},
		NewModel: func() *testArticle { return &testArticle{} },
	}
}

func Test_Table_Validate_ErrorCases(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(table *Table[*testArticle])
		expectedErr error
	}{
		{
			name:        "empty table name",
			mutate:      func(table *Table[*testArticle]) { table.Name = "" },
			expectedErr: ErrEmptyTableName,
		},
		{
			name:        "no columns",
			mutate:      func(table *Table[*testArticle]) { table.Columns = nil },
			expectedErr: ErrNoColumnsDefined,
		},
		{
			name:        "nil model factory",
			mutate:      func(table *Table[*testArticle]) { table.NewModel = nil },
			expectedErr: ErrNilModelFactory,
		},
		{
			name: "empty column name",
			mutate: func(table *Table[*testArticle]) {
				table.Columns = append(table.Columns, ColumnOf("", func(a *testArticle) *string { return &a.Title }))
			},
			expectedErr: ErrEmptyColumnName,
		},
		{
			name: "duplicate column name",
			mutate: func(table *Table[*testArticle]) {
				table.Columns = append(table.Columns, ColumnOf("title", func(a *testArticle) *string { return &a.Title }))
			},
			expectedErr: ErrDuplicateColumn,
		},
		{
			name: "column shadowing the identifier column",
			mutate: func(table *Table[*testArticle]) {
				table.Columns = append(table.Columns, ColumnOf("id", func(a *testArticle) *int64 { return &a.Price }))
			},
			expectedErr: ErrDuplicateColumn,
		},
		{
			name: "ignore-on-insert names an unmapped column",
			mutate: func(table *Table[*testArticle]) {
				table.IgnoreOnInsert = []string{"no_such_column"}
			},
			expectedErr: ErrUnknownColumn,
		},
		{
			name: "ignore-on-insert names the identifier column",
			mutate: func(table *Table[*testArticle]) {
				table.IgnoreOnInsert = []string{"id"}
			},
			expectedErr: ErrUnknownColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := testArticleTable()
			tt.mutate(&table)

			err := table.Validate()
			assert.ErrorContains(t, err, tt.expectedErr.Error())
		})
	}
}

func Test_Table_Validate_Success(t *testing.T) {
	table := testArticleTable()
	table.IgnoreOnInsert = []string{"price"}

	assert.NoError(t, table.Validate())
}

func Test_Table_ColumnNames_And_SelectColumns(t *testing.T) {
	table := testArticleTable()

	assert.Equal(t, []string{"title", "price", "tags"}, table.ColumnNames())
	assert.Equal(t, []any{"id", "title", "price", "tags"}, table.SelectColumns())
}

func Test_Table_InsertColumnNames_LeavesOut_IgnoredColumns(t *testing.T) {
	table := testArticleTable()
	table.IgnoreOnInsert = []string{"price"}

	assert.Equal(t, []string{"title", "tags"}, table.InsertColumnNames())

	ignored := table.IgnoredInsertColumns()
	assert.Len(t, ignored, 1)
	assert.Equal(t, "price", ignored[0].Name())
}

func Test_Table_RowFromModel_SerializesMappedColumns(t *testing.T) {
	table := testArticleTable()
	article := &testArticle{Title: "first", Price: 100, Tags: []string{"a", "b"}}

	record, err := table.RowFromModel(article)

	assert.NoError(t, err)
	assert.Equal(t, "first", record["title"])
	assert.Equal(t, int64(100), record["price"])
	assert.JSONEq(t, `["a","b"]`, record["tags"].(string))
	assert.NotContains(t, record, "id")
}

func Test_Table_RowFromModel_WithExclude(t *testing.T) {
	table := testArticleTable()
	article := &testArticle{Title: "first", Price: 100}

	record, err := table.RowFromModel(article, "price", "tags")

	assert.NoError(t, err)
	assert.Equal(t, []string{"title"}, goquRecordKeys(record))
}

func Test_Table_InsertRowFromModel_LeavesOut_IgnoredColumns(t *testing.T) {
	table := testArticleTable()
	table.IgnoreOnInsert = []string{"price"}
	article := &testArticle{Title: "first", Price: 1337}

	record, err := table.InsertRowFromModel(article)

	assert.NoError(t, err)
	assert.NotContains(t, record, "price")
	assert.Contains(t, record, "title")
}

func Test_Table_RowForColumns_FailsFor_UnknownColumn(t *testing.T) {
	table := testArticleTable()
	article := &testArticle{Title: "first"}

	_, err := table.RowForColumns(article, []string{"title", "no_such_column"})

	assert.ErrorContains(t, err, ErrUnknownColumn.Error())
}

func Test_Table_ScanTargets_WriteThroughToModel(t *testing.T) {
	table := testArticleTable()
	article := &testArticle{}

	targets := table.ScanTargets(article)
	assert.Len(t, targets, 3)

	*targets[0].(*string) = "scanned"
	*targets[1].(*int64) = 42
	assert.NoError(t, targets[2].(*jsonCell[[]string]).Scan([]byte(`["x"]`)))

	assert.Equal(t, "scanned", article.Title)
	assert.Equal(t, int64(42), article.Price)
	assert.Equal(t, []string{"x"}, article.Tags)
}

func Test_Table_ApplyChanges_AssignsMappedFields(t *testing.T) {
	table := testArticleTable()
	article := &testArticle{Title: "old", Price: 1}

	err := table.ApplyChanges(article, Changes{
		"title": "new",
		"price": int64(2),
		"tags":  []string{"t"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "new", article.Title)
	assert.Equal(t, int64(2), article.Price)
	assert.Equal(t, []string{"t"}, article.Tags)
}

func Test_Table_ApplyChanges_ErrorCases(t *testing.T) {
	tests := []struct {
		name        string
		changes     Changes
		expectedErr error
	}{
		{
			name:        "unknown column",
			changes:     Changes{"no_such_column": 1},
			expectedErr: ErrUnknownColumn,
		},
		{
			name:        "incompatible value type",
			changes:     Changes{"price": "not a number"},
			expectedErr: ErrIncompatibleValue,
		},
		{
			name:        "incompatible json value",
			changes:     Changes{"tags": 42},
			expectedErr: ErrIncompatibleValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := testArticleTable()
			article := &testArticle{}

			err := table.ApplyChanges(article, tt.changes)
			assert.ErrorContains(t, err, tt.expectedErr.Error())
		})
	}
}

func Test_Table_ApplyChanges_NilValue_ResetsFieldToZero(t *testing.T) {
	table := testArticleTable()
	article := &testArticle{Title: "old", Tags: []string{"a"}}

	err := table.ApplyChanges(article, Changes{"title": nil, "tags": nil})

	assert.NoError(t, err)
	assert.Equal(t, "", article.Title)
	assert.Nil(t, article.Tags)
}

func Test_JSONColumn_Assign_AcceptsTypedAndRawJSON(t *testing.T) {
	table := testArticleTable()

	typed := &testArticle{}
	assert.NoError(t, table.ApplyChanges(typed, Changes{"tags": []string{"a"}}))
	assert.Equal(t, []string{"a"}, typed.Tags)

	fromBytes := &testArticle{}
	assert.NoError(t, table.ApplyChanges(fromBytes, Changes{"tags": []byte(`["b"]`)}))
	assert.Equal(t, []string{"b"}, fromBytes.Tags)

	fromString := &testArticle{}
	assert.NoError(t, table.ApplyChanges(fromString, Changes{"tags": `["c"]`}))
	assert.Equal(t, []string{"c"}, fromString.Tags)
}

func Test_JSONCell_Scan_ErrorCases(t *testing.T) {
	var tags []string
	cell := &jsonCell[[]string]{dest: &tags}

	assert.Error(t, cell.Scan([]byte(`{invalid json`)))
	assert.Error(t, cell.Scan(42))
}

func Test_JSONCell_Scan_Nil_ResetsToZero(t *testing.T) {
	tags := []string{"stale"}
	cell := &jsonCell[[]string]{dest: &tags}

	assert.NoError(t, cell.Scan(nil))
	assert.Nil(t, tags)
}

func goquRecordKeys(record map[string]any) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}

	return keys
}
