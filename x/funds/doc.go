/*
Package funds is a minimal ledger used to settle executed transfers.

It keeps one wallet per address, each holding a native balance and any
number of token balances. The Ledger controller implements the adapter
contracts of the proposals engine: it moves native value, moves token
units and answers balance queries. Recipient callbacks can be registered
per address to react to incoming native transfers and their payload,
which makes the ledger a stand-in for arbitrary external recipient code
in tests and local deployments.
*/
package funds
