// Package queue implements the single-producer/single-consumer ring used
// at the runtime boundary to move FrameUpdate values in from the I/O
// thread and ChannelWrite values back out, per spec.md §4.1. The ring
// itself holds no notifier; pair a Ring with a notify.Notifier (signalled
// by the producer, waited on by the consumer) to get the blocking Pop
// contract described in spec.md.
package queue
