package sweep

import (
	"testing"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SpaceTestSuite struct {
	suite.Suite

	space *Space
}

func TestSpaceSuite(t *testing.T) {
	suite.Run(t, new(SpaceTestSuite))
}

func (suite *SpaceTestSuite) SetupTest() {
	suite.space = NewSpace()
}

func (suite *SpaceTestSuite) TestDeclare() {
	err := suite.space.Declare("nFast", "fast_period", IntValues(1, 2, 3))
	suite.NoError(err)

	dist, ok := suite.space.Distribution("nFast")
	suite.True(ok)
	suite.Equal("nFast", dist.Label())
	suite.Equal("fast_period", dist.Binding())
	suite.Equal(ValueKindInt, dist.Kind())
	suite.Len(dist.Values(), 3)
}

func (suite *SpaceTestSuite) TestDeclareEmptyLabel() {
	err := suite.space.Declare("", "fast_period", IntValues(1))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyLabel))
}

func (suite *SpaceTestSuite) TestDeclareDuplicateLabel() {
	suite.NoError(suite.space.Declare("nFast", "fast_period", IntValues(1)))

	err := suite.space.Declare("nFast", "slow_period", IntValues(2))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDuplicateLabel))

	// The original declaration is untouched
	values, verr := suite.space.ValuesOf("nFast")
	suite.NoError(verr)
	suite.Len(values, 1)
	suite.Equal(int64(1), values[0].Int())
}

func (suite *SpaceTestSuite) TestDeclareEmptyValues() {
	err := suite.space.Declare("nFast", "fast_period", nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyValues))
}

func (suite *SpaceTestSuite) TestDeclareMixedKinds() {
	err := suite.space.Declare("mixed", "fast_period", []Value{IntValue(1), FloatValue(2.0)})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidValueKind))
}

func (suite *SpaceTestSuite) TestValuesOfUnknownLabel() {
	_, err := suite.space.ValuesOf("missing")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownLabel))
}

func (suite *SpaceTestSuite) TestValuesOfReturnsCopy() {
	suite.NoError(suite.space.Declare("nFast", "fast_period", IntValues(1, 2)))

	values, err := suite.space.ValuesOf("nFast")
	suite.NoError(err)

	values[0] = IntValue(99)

	fresh, err := suite.space.ValuesOf("nFast")
	suite.NoError(err)
	suite.Equal(int64(1), fresh[0].Int())
}

func (suite *SpaceTestSuite) TestLabelsKeepDeclarationOrder() {
	suite.NoError(suite.space.Declare("c", "fast_period", IntValues(1)))
	suite.NoError(suite.space.Declare("a", "slow_period", IntValues(2)))
	suite.NoError(suite.space.Declare("b", "fast_period", IntValues(3)))

	suite.Equal([]string{"c", "a", "b"}, suite.space.Labels())
	suite.Equal(3, suite.space.Size())
}

func (suite *SpaceTestSuite) TestProductSize() {
	suite.Equal(0, suite.space.ProductSize())

	suite.NoError(suite.space.Declare("nFast", "fast_period", IntValues(1, 2, 3)))
	suite.NoError(suite.space.Declare("nSlow", "slow_period", IntValues(2, 3)))

	suite.Equal(6, suite.space.ProductSize())
}
