// Package version exposes build information of the discovery binary.
//
//	go build -ldflags "-X github.com/kbukum/discovery/version.Version=1.4.0 \
//	  -X github.com/kbukum/discovery/version.GitCommit=$(git rev-parse --short HEAD)"
package version
