package creator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Owner: "guillaumon", App: "pdc", Token: "tok"}, nil)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/guillaumon/pdc/report/Laranj_cotacoes_ADM", r.URL.Path)
		assert.Equal(t, `(num_PDC_temp=="t1" && Ativo==true)`, r.URL.Query().Get("criteria"))
		assert.Equal(t, "201", r.URL.Query().Get("from"))
		assert.Equal(t, "200", r.URL.Query().Get("limit"))
		assert.Equal(t, "Zoho-oauthtoken tok", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"code":3000,"data":[{"ID":"3938561000070001","Valor":12.5},{"ID":"3938561000070002"}]}`)
	})

	res, err := client.Search(context.Background(), "Laranj_cotacoes_ADM", `(num_PDC_temp=="t1" && Ativo==true)`, 2)
	require.NoError(t, err)
	assert.Equal(t, port.CodeSuccess, res.Code)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "3938561000070001", res.Rows[0].ID())
	assert.Equal(t, json.Number("12.5"), res.Rows[0]["Valor"])
}

func TestSearch_NoRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":3100,"message":"No Data Available"}`)
	})

	res, err := client.Search(context.Background(), "Laranj_PDC_Digital_ADM", `(id_temp=="x")`, 1)
	require.NoError(t, err)
	assert.Equal(t, port.CodeNoRecords, res.Code)
	assert.Empty(t, res.Rows)
}

func TestSearch_HTTPErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "r", "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 502")
}

func TestCreate_Single(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/guillaumon/pdc/form/PDC_Digital", r.URL.Path)

		var body map[string]map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "t1", body["data"]["id_temp"])

		_, _ = io.WriteString(w, `{"code":3000,"data":{"ID":"900"},"message":"Data Added Successfully"}`)
	})

	res, err := client.Create(context.Background(), "PDC_Digital", map[string]interface{}{"id_temp": "t1"})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"900"}, res.IDs())
	assert.Equal(t, "Data Added Successfully", res.Message)
}

func TestCreate_List(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result":[{"code":3000,"data":{"ID":"1"}},{"code":3001,"message":{"Valor":"invalid"}}]}`)
	})

	res, err := client.Create(context.Background(), "cotacao_Laranj", []map[string]interface{}{{}, {}})
	require.NoError(t, err)
	assert.Equal(t, 3001, res.Code)
	require.Len(t, res.Results, 2)
	assert.Equal(t, []string{"1"}, res.IDs())
	assert.Contains(t, res.Results[1].Message, "invalid")
}

func TestUpdate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v2/guillaumon/pdc/report/Laranj_cotacoes_ADM/77", r.URL.Path)
		_, _ = io.WriteString(w, `{"code":3000,"message":"Data Updated Successfully"}`)
	})

	res, err := client.Update(context.Background(), "Laranj_cotacoes_ADM", "77", map[string]interface{}{"Ativo": false})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "77", res.ID)
}

func TestUploadFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/guillaumon/pdc/report/laranj_arquivos_pdc_Report/5/Arquivos/upload", r.URL.Path)

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "nota.pdf", hdr.Filename)
		assert.Equal(t, []byte("%PDF"), data)

		_, _ = io.WriteString(w, `{"code":3000}`)
	})

	res, err := client.UploadFile(context.Background(), "laranj_arquivos_pdc_Report", "5", "Arquivos",
		port.File{Name: "nota.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.NoError(t, port.CheckResult("upload", "nota.pdf", res))
}

func TestUploadFile_RejectedBecomesStoreError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":2945,"message":"file too large"}`)
	})

	res, err := client.UploadFile(context.Background(), "r", "5", "Arquivos", port.File{Name: "big.zip"})
	require.NoError(t, err)

	err = port.CheckResult("upload", "big.zip", res)
	var storeErr *port.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, 2945, storeErr.Code)
	assert.True(t, errors.Is(err, port.ErrRemoteCall))
}

func TestRequestCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":3000}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "r", "", 1)
	assert.True(t, errors.Is(err, context.Canceled))
}
