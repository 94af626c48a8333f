package mocks

//go:generate mockgen -destination=./mock_evaluator.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/sweep Evaluator
//go:generate mockgen -destination=./mock_result_store.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/sweep ResultStore
