/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model, stored with protobuf.
* It has a primary key chosen by the caller.
* It may possess one or more secondary indexes (1:1 or 1:N)
* Easy queries for one and iteration.

Buckets can be registered with a tokenescrow.QueryRouter to expose their
content, and the content of every index, to abci queries.
*/
package orm
