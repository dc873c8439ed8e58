// Package services implements the core orchestration of the sourcing
// pass. It depends only on domain and the port interfaces; feeds,
// normalisers and stores are injected at startup.
package services
