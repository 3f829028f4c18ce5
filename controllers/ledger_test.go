package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
)

func deleteEntryRequest(t *testing.T, lc *LedgerController, id string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/ledger/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}

	lc.DeleteEntry(c)
	return w
}

func TestDeleteEntryRejectsVirtualID(t *testing.T) {
	// Ledger is nil on purpose: a virtual id must be rejected before any
	// store access, so reaching the repository would panic the test.
	lc := &LedgerController{}

	for _, suffix := range []string{"income", "commission", "gateway-fee", "tax", "product-cost"} {
		id := "virtual-" + suffix + "-" + uuid.NewString()
		w := deleteEntryRequest(t, lc, id)

		require.Equal(t, http.StatusBadRequest, w.Code, "id %s", id)
		assert.Contains(t, w.Body.String(), finance.ErrImmutableEntry.Error())
	}
}

func TestDeleteEntryRejectsMalformedID(t *testing.T) {
	lc := &LedgerController{}

	w := deleteEntryRequest(t, lc, "not-a-uuid")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid entry ID")
}
