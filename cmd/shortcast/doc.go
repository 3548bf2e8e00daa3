// Command shortcast schedules and publishes short videos. The run command
// hosts the blocking scheduler daemon; the remaining commands are one-shot
// operator tools for seeding, inspection, and login setup.
package main
