package p2p

const protocolPrefix = "/holdnode/0.0.0"

const (
	// RPCGetValidationPackageTopic requests the ValidationPackage for an
	// entry address from a peer that authored/holds it.
	RPCGetValidationPackageTopic = protocolPrefix + "/req/get_validation_package/1"
	// RPCFetchEntryDataTopic requests the set of EntryAspects a peer
	// holds for an entry address.
	RPCFetchEntryDataTopic = protocolPrefix + "/req/fetch_entry_data/1"
)

const (
	// GossipEntryPublishTopic is where newly authored/held entries are
	// announced to subscribed peers.
	GossipEntryPublishTopic = protocolPrefix + "/gossip/entry_publish/1"
)
