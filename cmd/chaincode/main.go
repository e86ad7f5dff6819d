package main

import (
	"log/slog"
	"os"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"

	"healthledger/internal/ledger/chaincode"
	"healthledger/internal/platform/logger"
)

// main starts the ledger as Fabric chaincode. Logs go to stderr so the peer
// collects them with the container output.
func main() {
	log := logger.NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"))
	slog.SetDefault(log)

	cc, err := contractapi.NewChaincode(chaincode.NewContract(log))
	if err != nil {
		log.Error("error creating healthledger chaincode", "error", err)
		os.Exit(1)
	}

	if err := cc.Start(); err != nil {
		log.Error("error starting healthledger chaincode", "error", err)
		os.Exit(1)
	}
}
