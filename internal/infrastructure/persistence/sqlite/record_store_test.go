package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/database"
)

func newTestStore(t *testing.T) *RecordStore {
	t.Helper()
	db, err := database.New(database.Config{Path: database.MemoryPath}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.NewMigrator(db, nil).Migrate())

	return NewRecordStore(NewDB(db.DB, nil), map[string]string{
		"Laranj_PDC_Digital_ADM": "PDC_Digital",
		"Laranj_cotacoes_ADM":    "cotacao_Laranj",
	}, nil)
}

func TestWhereClause(t *testing.T) {
	tests := []struct {
		criteria string
		where    string
		args     []interface{}
	}{
		{"", "1=1", nil},
		{"(ID!=0)", "id IS NOT ?", []interface{}{int64(0)}},
		{`(id_temp=="t1")`, "json_extract(document, ?) = ?", []interface{}{`$."id_temp"`, "t1"}},
		{
			`(num_PDC_temp=="t1" && Ativo==true && Aprovado==true)`,
			"json_extract(document, ?) = ? AND json_extract(document, ?) = ? AND json_extract(document, ?) = ?",
			[]interface{}{`$."num_PDC_temp"`, "t1", `$."Ativo"`, 1, `$."Aprovado"`, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.criteria, func(t *testing.T) {
			where, args, err := whereClause(tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}

	_, _, err := whereClause(`(Nome.contains("x"))`)
	assert.True(t, errors.Is(err, ErrUnsupportedCriteria))
	_, _, err = whereClause(`(a==b)`)
	assert.True(t, errors.Is(err, ErrUnsupportedCriteria))
}

func TestRecordStore_CreateAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	res, err := store.Create(ctx, "PDC_Digital", map[string]interface{}{"id_temp": "t1", "Entidade": "e1"})
	require.NoError(t, err)
	assert.True(t, res.OK())
	require.Len(t, res.IDs(), 1)

	_, err = store.Create(ctx, "PDC_Digital", map[string]interface{}{"id_temp": "t2"})
	require.NoError(t, err)

	page, err := store.Search(ctx, "Laranj_PDC_Digital_ADM", `(id_temp=="t1")`, 1)
	require.NoError(t, err)
	assert.Equal(t, port.CodeSuccess, page.Code)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, res.IDs()[0], page.Rows[0].ID())
	assert.Equal(t, "e1", page.Rows[0]["Entidade"])

	none, err := store.Search(ctx, "Laranj_PDC_Digital_ADM", `(id_temp=="nope")`, 1)
	require.NoError(t, err)
	assert.Equal(t, port.CodeNoRecords, none.Code)
}

func TestRecordStore_CreateList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rows := []map[string]interface{}{
		{"num_PDC_temp": "t1", "Ativo": true, "Aprovado": true},
		{"num_PDC_temp": "t1", "Ativo": true, "Aprovado": false},
		{"num_PDC_temp": "t1", "Ativo": false, "Aprovado": true},
	}
	res, err := store.Create(ctx, "cotacao_Laranj", rows)
	require.NoError(t, err)
	assert.Len(t, res.Results, 3)
	assert.Len(t, res.IDs(), 3)

	page, err := store.Search(ctx, "Laranj_cotacoes_ADM", `(num_PDC_temp=="t1" && Ativo==true)`, 1)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)

	page, err = store.Search(ctx, "Laranj_cotacoes_ADM", `(num_PDC_temp=="t1" && Ativo==true && Aprovado==true)`, 1)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 1)
}

func TestRecordStore_Paging(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rows := make([]map[string]interface{}, port.PageSize+5)
	for i := range rows {
		rows[i] = map[string]interface{}{"Nome": fmt.Sprintf("fornecedor %d", i)}
	}
	_, err := store.Create(ctx, "Laranj_Base_de_fornecedores", rows)
	require.NoError(t, err)

	first, err := store.Search(ctx, "Laranj_Base_de_fornecedores", "(ID!=0)", 1)
	require.NoError(t, err)
	assert.Len(t, first.Rows, port.PageSize)

	second, err := store.Search(ctx, "Laranj_Base_de_fornecedores", "(ID!=0)", 2)
	require.NoError(t, err)
	assert.Len(t, second.Rows, 5)
	assert.Equal(t, "fornecedor 200", second.Rows[0]["Nome"])

	third, err := store.Search(ctx, "Laranj_Base_de_fornecedores", "(ID!=0)", 3)
	require.NoError(t, err)
	assert.Equal(t, port.CodeNoRecords, third.Code)
}

func TestRecordStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "cotacao_Laranj", map[string]interface{}{"num_PDC_temp": "t1", "Ativo": true})
	require.NoError(t, err)
	id := created.IDs()[0]

	res, err := store.Update(ctx, "Laranj_cotacoes_ADM", id, map[string]interface{}{"Ativo": false})
	require.NoError(t, err)
	assert.True(t, res.OK())

	page, err := store.Search(ctx, "Laranj_cotacoes_ADM", `(num_PDC_temp=="t1" && Ativo==false)`, 1)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "t1", page.Rows[0]["num_PDC_temp"])

	missing, err := store.Update(ctx, "Laranj_cotacoes_ADM", "999", map[string]interface{}{"Ativo": false})
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, missing.Code)
	assert.Error(t, port.CheckResult("update", "999", missing))
}

func TestRecordStore_UploadFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "laranj_arquivos_pdc", map[string]interface{}{"id_temp": "t1"})
	require.NoError(t, err)
	id := created.IDs()[0]

	res, err := store.UploadFile(ctx, "laranj_arquivos_pdc", id, "Arquivos",
		port.File{Name: "nota.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.True(t, res.OK())

	files, err := store.Files(ctx, id, "Arquivos")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "nota.pdf", files[0].Name)
	assert.Equal(t, []byte("%PDF"), files[0].Data)

	res, err = store.UploadFile(ctx, "laranj_arquivos_pdc", "404", "Arquivos", port.File{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, res.Code)
}

func TestRecordStore_CreateRejectsScalars(t *testing.T) {
	store := newTestStore(t)

	res, err := store.Create(context.Background(), "PDC_Digital", "just text")
	require.NoError(t, err)
	assert.Equal(t, CodeInvalidData, res.Code)
	assert.False(t, res.OK())
}
