package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/ranking --output domain/ranking --outpkg rankingmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/performance --output domain/performance --outpkg performancemock --filename provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/performance --output domain/performance --outpkg performancemock --filename repository_mock.go
