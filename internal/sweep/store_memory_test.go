package sweep

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type MemoryStoreTestSuite struct {
	suite.Suite

	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}

func (suite *MemoryStoreTestSuite) SetupTest() {
	suite.store = NewMemoryStore()
}

func (suite *MemoryStoreTestSuite) sampleSet(identity Identity) *ResultSet {
	combination := NewCombination(
		[]string{"nFast", "nSlow"},
		[]Value{IntValue(2), IntValue(3)},
	)

	return NewResultSet(identity, StatusComplete, []Result{
		{
			Combination: combination,
			Metrics:     optional.Some(Output{"total_return_pct": 12.5}),
		},
	})
}

func (suite *MemoryStoreTestSuite) TestLoadMiss() {
	loaded, err := suite.store.Load("unknown")
	suite.NoError(err)
	suite.True(loaded.IsNone())
}

func (suite *MemoryStoreTestSuite) TestSaveLoad() {
	set := suite.sampleSet("sweep-1")
	suite.NoError(suite.store.Save("sweep-1", set))

	loaded, err := suite.store.Load("sweep-1")
	suite.NoError(err)
	suite.True(loaded.IsSome())
	suite.Equal(set, loaded.Unwrap())
}

func (suite *MemoryStoreTestSuite) TestSaveReplaces() {
	suite.NoError(suite.store.Save("sweep-1", suite.sampleSet("sweep-1")))

	replacement := NewResultSet("sweep-1", StatusEmpty, nil)
	suite.NoError(suite.store.Save("sweep-1", replacement))

	loaded, err := suite.store.Load("sweep-1")
	suite.NoError(err)
	suite.Equal(StatusEmpty, loaded.Unwrap().Status)
}

func (suite *MemoryStoreTestSuite) TestLoadedSetIsIsolatedFromCache() {
	suite.NoError(suite.store.Save("sweep-1", suite.sampleSet("sweep-1")))

	loaded, err := suite.store.Load("sweep-1")
	suite.NoError(err)

	// Mutating the loaded copy must not corrupt what the store holds
	loaded.Unwrap().Results[0] = Result{Error: "clobbered"}

	fresh, err := suite.store.Load("sweep-1")
	suite.NoError(err)
	suite.False(fresh.Unwrap().Results[0].Failed())
	suite.True(fresh.Unwrap().Results[0].Metrics.IsSome())
}

func (suite *MemoryStoreTestSuite) TestIdentitiesAreIndependent() {
	suite.NoError(suite.store.Save("sweep-1", suite.sampleSet("sweep-1")))

	loaded, err := suite.store.Load("sweep-2")
	suite.NoError(err)
	suite.True(loaded.IsNone())
}

func (suite *MemoryStoreTestSuite) TestReset() {
	suite.NoError(suite.store.Save("sweep-1", suite.sampleSet("sweep-1")))
	suite.store.Reset()

	loaded, err := suite.store.Load("sweep-1")
	suite.NoError(err)
	suite.True(loaded.IsNone())
}

func (suite *MemoryStoreTestSuite) TestClose() {
	suite.NoError(suite.store.Close())
}
