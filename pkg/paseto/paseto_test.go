package paseto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	util "dayflow/pkg/utils"
)

func testMaker(t *testing.T) *Maker {
	t.Helper()

	key, err := util.GenerateBase64Key(32)
	require.NoError(t, err)

	maker, err := NewMaker(key)
	require.NoError(t, err)
	return maker
}

func TestNewMakerRejectsBadKeys(t *testing.T) {
	_, err := NewMaker("not base64!!!")
	assert.Error(t, err)

	// Valid base64 but too short.
	_, err = NewMaker("c2hvcnQta2V5")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	maker := testMaker(t)

	employee := &models.Employee{
		ID:         primitive.NewObjectID(),
		EmployeeID: "EMP042",
		Email:      "jordan@dayflow.com",
		Role:       models.RoleHR,
	}

	token, err := maker.GenerateToken(employee)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, employee.ID, claims.EmployeeID)
	assert.Equal(t, "EMP042", claims.EmployeeCode)
	assert.Equal(t, "jordan@dayflow.com", claims.Email)
	assert.Equal(t, models.RoleHR, claims.Role)
	assert.True(t, claims.IsAdmin())
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	maker := testMaker(t)
	other := testMaker(t)

	token, err := maker.GenerateToken(&models.Employee{
		ID:    primitive.NewObjectID(),
		Email: "casey@dayflow.com",
		Role:  models.RoleEmployee,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	maker := testMaker(t)

	_, err := maker.ValidateToken("v2.local.definitely-not-a-token")
	assert.Error(t, err)
}

func TestClaimsIsAdmin(t *testing.T) {
	assert.True(t, (&Claims{Role: models.RoleAdmin}).IsAdmin())
	assert.True(t, (&Claims{Role: models.RoleHR}).IsAdmin())
	assert.False(t, (&Claims{Role: models.RoleEmployee}).IsAdmin())
}
