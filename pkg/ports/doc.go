/*
Package ports defines the driven ports (interfaces) for the Espalier engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with various graph sources and session storage
backends.

# Key Interfaces

  - GraphSource: responsible for producing a Graph (from a document, a
    directory of Markdown nodes, or memory).
  - SessionStore: responsible for persisting and loading walk Sessions.
  - DistributedLocker: responsible for cross-replica session locking.
  - Engine: the traversal surface renderers and transports consume.

The package also exports contract test suites (RunSessionStoreContract,
RunGraphSourceContract) that every adapter runs against its own backend.
*/
package ports
